package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/service/allocation"
)

type DayRecorder interface {
	AddProductionDay(ctx context.Context, productionID int64, in allocation.DayInput) (int64, error)
}

// SaveProductionDay records one day of a production. The body is an
// allocation.DayInput; shape errors answer 400, divisions that do not add up
// answer 422 and a closed production answers 409.
func SaveProductionDay(log *slog.Logger, days DayRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production-days.save.SaveProductionDay"

		productionID, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var in allocation.DayInput
		if err := api.Decode(r, &in); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		dayID, err := days.AddProductionDay(ctx, productionID, in)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": dayID})
	}
}

package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
)

type ProductionOpener interface {
	OpenProduction(ctx context.Context, name, startDate string) (int64, error)
}

type Request struct {
	Name      string `json:"name" validate:"required,max=120"`
	StartDate string `json:"start_date" validate:"required,date"`
}

func SaveProduction(log *slog.Logger, productions ProductionOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.save.SaveProduction"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := productions.OpenProduction(ctx, req.Name, req.StartDate)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}

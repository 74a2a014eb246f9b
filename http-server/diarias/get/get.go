package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

type Diarias interface {
	ListDiarias(ctx context.Context, f storage.PeriodFilter) ([]storage.Diaria, error)
}

// GetDiarias lists diárias of a period, optionally of one worker or cost
// center.
func GetDiarias(log *slog.Logger, diarias Diarias) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.diarias.get.GetDiarias"

		filter, err := api.Period(r, time.Now())
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := diarias.ListDiarias(ctx, filter)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

type ProductionCloser interface {
	CloseProduction(ctx context.Context, productionID int64, endDate string) (*storage.Production, error)
}

type Request struct {
	EndDate string `json:"end_date" validate:"required,date"`
}

// CloseProduction freezes the totals of a production. Closed productions
// answer 409 to every later change.
func CloseProduction(log *slog.Logger, productions ProductionCloser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.update.CloseProduction"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		prod, err := productions.CloseProduction(ctx, id, req.EndDate)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, prod)
	}
}

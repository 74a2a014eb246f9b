package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
)

type DiariaPayer interface {
	SetDiariaPaid(ctx context.Context, id int64, paid bool) error
}

type PaidRequest struct {
	Paid *bool `json:"paid" validate:"required"`
}

func SetDiariaPaid(log *slog.Logger, diarias DiariaPayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.diarias.update.SetDiariaPaid"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var req PaidRequest
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := diarias.SetDiariaPaid(ctx, id, *req.Paid); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]any{"status": "updated", "paid": *req.Paid})
	}
}

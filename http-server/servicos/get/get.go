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

type Servicos interface {
	ListServicos(ctx context.Context, f storage.PeriodFilter) ([]storage.Servico, error)
}

func GetServicos(log *slog.Logger, servicos Servicos) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicos.get.GetServicos"

		filter, err := api.Period(r, time.Now())
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := servicos.ListServicos(ctx, filter)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

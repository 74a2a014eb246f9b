package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gestao-diaristas/http-server/api"
)

type ServicoDeleter interface {
	DeleteServico(ctx context.Context, id int64) error
}

func DeleteServico(log *slog.Logger, servicos ServicoDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicos.remove.DeleteServico"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := servicos.DeleteServico(ctx, id); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

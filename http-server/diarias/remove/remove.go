package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gestao-diaristas/http-server/api"
)

type DiariaDeleter interface {
	DeleteDiaria(ctx context.Context, id int64) error
}

func DeleteDiaria(log *slog.Logger, diarias DiariaDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.diarias.remove.DeleteDiaria"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := diarias.DeleteDiaria(ctx, id); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("diária excluída", slog.Int64("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}

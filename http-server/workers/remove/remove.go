package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gestao-diaristas/http-server/api"
)

type WorkerDeleter interface {
	DeleteWorker(ctx context.Context, id int64) error
}

// DeleteWorker removes a worker without history. Workers with diárias,
// serviços or production shares answer 409 and must be deactivated instead.
func DeleteWorker(log *slog.Logger, workers WorkerDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.remove.DeleteWorker"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := workers.DeleteWorker(ctx, id); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("diarista excluído", slog.Int64("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}

package get

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

type Workers interface {
	ListWorkers(ctx context.Context, f storage.WorkerFilter) ([]storage.Worker, error)
	GetWorker(ctx context.Context, id int64) (*storage.Worker, error)
}

// GetWorkers lists workers. ?active=true keeps only active ones and ?q=
// searches by name or CPF.
func GetWorkers(log *slog.Logger, workers Workers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.get.GetWorkers"

		filter := storage.WorkerFilter{
			OnlyActive: r.URL.Query().Get("active") == "true",
			Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := workers.ListWorkers(ctx, filter)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetWorker(log *slog.Logger, workers Workers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.get.GetWorker"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		worker, err := workers.GetWorker(ctx, id)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, worker)
	}
}

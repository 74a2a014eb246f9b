package update

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/http-server/workers/save"
	"gestao-diaristas/internal/storage"
)

type WorkerUpdater interface {
	UpdateWorker(ctx context.Context, w storage.Worker) error
	SetWorkerActive(ctx context.Context, id int64, active bool, date string) error
}

func UpdateWorker(log *slog.Logger, workers WorkerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.update.UpdateWorker"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var req save.Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		cpf, err := save.NormalizeCPF(req.CPF)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = workers.UpdateWorker(ctx, storage.Worker{
			ID:            id,
			Name:          strings.TrimSpace(req.Name),
			CPF:           cpf,
			Phone:         strings.TrimSpace(req.Phone),
			AdmissionDate: req.AdmissionDate,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}

type StatusRequest struct {
	Active *bool  `json:"active" validate:"required"`
	Date   string `json:"date" validate:"omitempty,date"`
}

// SetWorkerStatus activates or deactivates a worker. Deactivation keeps the
// history and records the date, today when omitted.
func SetWorkerStatus(log *slog.Logger, workers WorkerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.update.SetWorkerStatus"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var req StatusRequest
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if req.Date == "" {
			req.Date = time.Now().Format(api.DateLayout)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := workers.SetWorkerActive(ctx, id, *req.Active, req.Date); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("situação do diarista alterada", slog.Int64("id", id), slog.Bool("active", *req.Active))

		render.JSON(w, r, map[string]any{"status": "updated", "active": *req.Active})
	}
}

package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

type DiariaCreator interface {
	GetWorker(ctx context.Context, id int64) (*storage.Worker, error)
	CreateDiaria(ctx context.Context, d storage.Diaria) (int64, error)
}

type Request struct {
	WorkerID     int64           `json:"worker_id" validate:"required,gt=0"`
	CostCenterID *int64          `json:"cost_center_id" validate:"omitempty,gt=0"`
	Date         string          `json:"date" validate:"required,date"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description" validate:"max=255"`
	Paid         bool            `json:"paid"`
}

func SaveDiaria(log *slog.Logger, diarias DiariaCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.diarias.save.SaveDiaria"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if err := api.Money("value", req.Value); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		worker, err := diarias.GetWorker(ctx, req.WorkerID)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if !worker.IsActive {
			api.Fail(w, r, log, op, api.BadRequest("diarista %s está inativo", worker.Name))
			return
		}

		id, err := diarias.CreateDiaria(ctx, storage.Diaria{
			WorkerID:     req.WorkerID,
			CostCenterID: req.CostCenterID,
			Date:         req.Date,
			Value:        req.Value,
			Description:  strings.TrimSpace(req.Description),
			Paid:         req.Paid,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("diária lançada", slog.Int64("id", id), slog.Int64("worker_id", req.WorkerID), slog.String("value", req.Value.StringFixed(2)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}

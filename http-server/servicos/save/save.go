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

type ServicoCreator interface {
	GetWorker(ctx context.Context, id int64) (*storage.Worker, error)
	CreateServico(ctx context.Context, sv storage.Servico) (int64, error)
}

type Request struct {
	WorkerID     int64           `json:"worker_id" validate:"required,gt=0"`
	CostCenterID *int64          `json:"cost_center_id" validate:"omitempty,gt=0"`
	Date         string          `json:"date" validate:"required,date"`
	Description  string          `json:"description" validate:"required,max=255"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitValue    decimal.Decimal `json:"unit_value"`
}

// SaveServico records a one-off service. The value is quantity times unit
// value rounded half-up to cents.
func SaveServico(log *slog.Logger, servicos ServicoCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servicos.save.SaveServico"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if err := api.Money("quantity", req.Quantity); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if err := api.Money("unit_value", req.UnitValue); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		worker, err := servicos.GetWorker(ctx, req.WorkerID)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if !worker.IsActive {
			api.Fail(w, r, log, op, api.BadRequest("diarista %s está inativo", worker.Name))
			return
		}

		value := req.Quantity.Mul(req.UnitValue).Round(2)

		id, err := servicos.CreateServico(ctx, storage.Servico{
			WorkerID:     req.WorkerID,
			CostCenterID: req.CostCenterID,
			Date:         req.Date,
			Description:  strings.TrimSpace(req.Description),
			Quantity:     req.Quantity,
			UnitValue:    req.UnitValue,
			Value:        value,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("serviço lançado", slog.Int64("id", id), slog.String("value", value.StringFixed(2)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id, "value": value})
	}
}

package save

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

type CostCenterCreator interface {
	CreateCostCenter(ctx context.Context, c storage.CostCenter) (int64, error)
}

type Request struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

func (req Request) CostCenter(id int64) storage.CostCenter {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return storage.CostCenter{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsActive:    active,
	}
}

func SaveCostCenter(log *slog.Logger, centers CostCenterCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost-centers.save.SaveCostCenter"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := centers.CreateCostCenter(ctx, req.CostCenter(0))
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}

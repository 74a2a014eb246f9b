package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/http-server/cost-centers/save"
	"gestao-diaristas/internal/storage"
)

type CostCenterUpdater interface {
	UpdateCostCenter(ctx context.Context, c storage.CostCenter) error
}

func UpdateCostCenter(log *slog.Logger, centers CostCenterUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost-centers.update.UpdateCostCenter"

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

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := centers.UpdateCostCenter(ctx, req.CostCenter(id)); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}

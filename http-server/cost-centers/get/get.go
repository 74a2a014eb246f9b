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

type CostCenters interface {
	ListCostCenters(ctx context.Context, onlyActive bool) ([]storage.CostCenter, error)
}

func GetCostCenters(log *slog.Logger, centers CostCenters) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cost-centers.get.GetCostCenters"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := centers.ListCostCenters(ctx, r.URL.Query().Get("active") == "true")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

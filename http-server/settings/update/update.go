package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"gestao-diaristas/http-server/api"
)

type UnitPriceUpdater interface {
	SetUnitPrice(ctx context.Context, price decimal.Decimal) error
}

type Request struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SetUnitPrice changes the price per sack. Days already recorded keep the
// price they were stamped with.
func SetUnitPrice(log *slog.Logger, settings UnitPriceUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settings.update.SetUnitPrice"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}
		if err := api.Money("unit_price", req.UnitPrice); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := settings.SetUnitPrice(ctx, req.UnitPrice); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("preço por saco alterado", slog.String("unit_price", req.UnitPrice.StringFixed(2)))

		render.JSON(w, r, map[string]string{"status": "updated", "unit_price": req.UnitPrice.StringFixed(2)})
	}
}

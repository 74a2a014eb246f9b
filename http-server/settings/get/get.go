package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"gestao-diaristas/http-server/api"
)

type UnitPriceProvider interface {
	GetUnitPrice(ctx context.Context) (decimal.Decimal, error)
}

func GetUnitPrice(log *slog.Logger, settings UnitPriceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settings.get.GetUnitPrice"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		price, err := settings.GetUnitPrice(ctx)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]any{"unit_price": price.StringFixed(2), "configured": price.IsPositive()})
	}
}

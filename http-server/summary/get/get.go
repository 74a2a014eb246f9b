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

type Summaries interface {
	PeriodSummary(ctx context.Context, f storage.PeriodFilter) (*storage.PeriodSummary, error)
}

// GetPeriodSummary totals diárias and serviços of a period per worker and per
// cost center.
func GetPeriodSummary(log *slog.Logger, summaries Summaries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.summary.get.GetPeriodSummary"

		filter, err := api.Period(r, time.Now())
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		summary, err := summaries.PeriodSummary(ctx, filter)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, summary)
	}
}

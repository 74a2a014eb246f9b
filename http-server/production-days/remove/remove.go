package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gestao-diaristas/http-server/api"
)

type DayDeleter interface {
	DeleteProductionDay(ctx context.Context, dayID int64) error
}

func DeleteProductionDay(log *slog.Logger, days DayDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production-days.remove.DeleteProductionDay"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := days.DeleteProductionDay(ctx, id); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

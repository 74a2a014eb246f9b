package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/service/allocation"
	"gestao-diaristas/internal/storage"
)

type ProductionLister interface {
	ListProductions(ctx context.Context, status string) ([]storage.Production, error)
}

type ProductionReader interface {
	GetProducao(ctx context.Context, id int64) (*storage.Production, error)
	GetTotaisDiaristas(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error)
	VerifyRollup(ctx context.Context, productionID int64) ([]allocation.RollupMismatch, error)
}

// GetProductions lists productions, optionally filtered by ?status=aberta or
// ?status=fechada.
func GetProductions(log *slog.Logger, productions ProductionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.get.GetProductions"

		status := r.URL.Query().Get("status")
		if status != "" && status != storage.ProductionOpen && status != storage.ProductionClosed {
			api.Fail(w, r, log, op, api.BadRequest("situação inválida %q", status))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := productions.ListProductions(ctx, status)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetProduction(log *slog.Logger, productions ProductionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.get.GetProduction"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		prod, err := productions.GetProducao(ctx, id)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, prod)
	}
}

func GetWorkerTotals(log *slog.Logger, productions ProductionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.get.GetWorkerTotals"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		totals, err := productions.GetTotaisDiaristas(ctx, id)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, totals)
	}
}

// GetConsistency recomputes the worker totals from the participant rows and
// lists every difference with the stored totals.
func GetConsistency(log *slog.Logger, productions ProductionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.productions.get.GetConsistency"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		mismatches, err := productions.VerifyRollup(ctx, id)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"production_id": id,
			"consistent":    len(mismatches) == 0,
			"mismatches":    mismatches,
		})
	}
}

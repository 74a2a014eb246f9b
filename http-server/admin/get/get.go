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

type AdminProvider interface {
	ListCompanies(ctx context.Context) ([]storage.Company, error)
	ListUsers(ctx context.Context) ([]storage.User, error)
}

func GetCompaniesAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetCompaniesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		companies, err := admin.ListCompanies(ctx)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, companies)
	}
}

func GetUsersAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetUsersAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := admin.ListUsers(ctx)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, users)
	}
}

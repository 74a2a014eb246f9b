package update

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/admin/save"
	"gestao-diaristas/http-server/api"
	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
)

type UserUpdater interface {
	UpdateUser(ctx context.Context, u storage.User) error
}

type UserRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Password    string   `json:"password" validate:"omitempty,min=6"`
	Role        string   `json:"role" validate:"required,oneof=admin operador"`
	Permissions []string `json:"permissions" validate:"dive,oneof=cadastros diarias servicos producao relatorios"`
	IsActive    *bool    `json:"is_active" validate:"required"`
}

// UpdateUserAdmin rewrites a user profile. An empty password keeps the
// current one.
func UpdateUserAdmin(log *slog.Logger, users UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateUserAdmin"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var req UserRequest
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		var hash string
		if req.Password != "" {
			if hash, err = authsvc.HashPassword(req.Password); err != nil {
				api.Fail(w, r, log, op, err)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = users.UpdateUser(ctx, storage.User{
			ID:           id,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
			Role:         req.Role,
			Permissions:  save.NormalizePermissions(req.Role, req.Permissions),
			IsActive:     *req.IsActive,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "updated"})
	}
}

package save

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
)

type CompanyCreator interface {
	CreateCompany(ctx context.Context, name, cnpj string) (*storage.Company, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, u storage.User) (int64, error)
}

type CompanyRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	CNPJ string `json:"cnpj" validate:"omitempty,numeric,len=14"`
}

// SaveCompanyAdmin registers a company and creates its database.
func SaveCompanyAdmin(log *slog.Logger, companies CompanyCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveCompanyAdmin"

		var req CompanyRequest
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		// criação do banco da empresa leva mais tempo
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		company, err := companies.CreateCompany(ctx, req.Name, req.CNPJ)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, company)
	}
}

type UserRequest struct {
	Username    string   `json:"username" validate:"required,alphanum,max=40"`
	Name        string   `json:"name" validate:"required,max=120"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        string   `json:"role" validate:"required,oneof=admin operador"`
	Permissions []string `json:"permissions" validate:"dive,oneof=cadastros diarias servicos producao relatorios"`
}

// NormalizePermissions drops repeated entries. Admins carry no explicit
// permissions since they hold all of them.
func NormalizePermissions(role string, perms []string) []string {
	if role == storage.RoleAdmin {
		return []string{}
	}
	out := []string{}
	for _, p := range storage.AllPermissions {
		if slices.Contains(perms, p) {
			out = append(out, p)
		}
	}
	return out
}

func SaveUserAdmin(log *slog.Logger, users UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveUserAdmin"

		var req UserRequest
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		hash, err := authsvc.HashPassword(req.Password)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := users.CreateUser(ctx, storage.User{
			Username:     strings.ToLower(req.Username),
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: hash,
			Role:         req.Role,
			Permissions:  NormalizePermissions(req.Role, req.Permissions),
			IsActive:     true,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("usuário cadastrado", slog.Int64("id", id), slog.String("username", req.Username))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/tenant"
)

type TokenParser interface {
	Parse(raw string) (*authsvc.Claims, error)
}

type SessionOpener interface {
	NewSession(ctx context.Context, userID int64, companyID string) (*tenant.Session, error)
}

// Bearer validates the token of the request and puts the tenant session of
// its user and company in the request context.
func Bearer(log *slog.Logger, tokens TokenParser, sessions SessionOpener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.Bearer"

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				http.Error(w, "token ausente", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				http.Error(w, "token inválido ou expirado", http.StatusUnauthorized)
				return
			}

			sess, err := sessions.NewSession(r.Context(), claims.UserID, claims.CompanyID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) ||
					errors.Is(err, tenant.ErrUserInactive) ||
					errors.Is(err, tenant.ErrCompanyInactive) {
					log.Warn("sessão recusada", slog.String("op", op), slog.String("err", err.Error()))
					http.Error(w, "sessão inválida", http.StatusUnauthorized)
					return
				}
				log.Error("falha ao abrir sessão", slog.String("op", op), slog.String("err", err.Error()))
				http.Error(w, "erro interno", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithSession(r.Context(), sess)))
		})
	}
}

// RequirePermission lets the request through only when the session user holds
// perm. Admins hold every permission.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := tenant.FromContext(r.Context())
			if !ok {
				http.Error(w, "sessão ausente", http.StatusUnauthorized)
				return
			}
			if !sess.User.Can(perm) {
				http.Error(w, "sem permissão: "+perm, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin restricts a route to users with the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := tenant.FromContext(r.Context())
		if !ok {
			http.Error(w, "sessão ausente", http.StatusUnauthorized)
			return
		}
		if sess.User.Role != storage.RoleAdmin {
			http.Error(w, "restrito a administradores", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package login

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	authsvc "gestao-diaristas/internal/service/auth"
)

type Authenticator interface {
	Login(ctx context.Context, username, password, companyID string) (*authsvc.Session, error)
}

type Request struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	CompanyID string `json:"company_id" validate:"required,uuid"`
}

func Login(log *slog.Logger, auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.Login"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := auth.Login(ctx, req.Username, req.Password, req.CompanyID)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, sess)
	}
}

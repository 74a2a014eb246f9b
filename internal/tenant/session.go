package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"gestao-diaristas/internal/service/allocation"
	"gestao-diaristas/internal/service/report"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/storage/sqldb"
)

// Session is everything one request may touch: the authenticated user and
// the storage and services of the company chosen at login.
type Session struct {
	User       storage.User
	Company    storage.Company
	Store      *sqldb.Storage
	Allocation *allocation.Service
	Reports    *report.Service
}

func (r *Registry) NewSession(ctx context.Context, userID int64, companyID string) (*Session, error) {
	const op = "tenant.Registry.NewSession"

	user, err := r.master.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %s: %w", op, user.Username, ErrUserInactive)
	}

	company, st, err := r.Tenant(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log := r.log.With(slog.String("company_id", company.ID), slog.String("user", user.Username))

	return &Session{
		User:       *user,
		Company:    *company,
		Store:      st,
		Allocation: allocation.NewService(st, log),
		Reports:    report.NewService(st),
	}, nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

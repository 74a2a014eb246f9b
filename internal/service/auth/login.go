package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gestao-diaristas/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	ErrUserInactive       = errors.New("usuário inativo")
	ErrCompanyInactive    = errors.New("empresa inativa")
)

type Directory interface {
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)
	GetCompany(ctx context.Context, id string) (*storage.Company, error)
}

type Service struct {
	dir    Directory
	tokens *Tokens
	log    *slog.Logger
}

func NewService(dir Directory, tokens *Tokens, log *slog.Logger) *Service {
	return &Service{dir: dir, tokens: tokens, log: log}
}

type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      storage.User    `json:"user"`
	Company   storage.Company `json:"company"`
}

// Login checks the credentials and opens a session on the chosen company.
func (s *Service) Login(ctx context.Context, username, password, companyID string) (*Session, error) {
	const op = "service.auth.Login"

	user, err := s.dir.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.log.Warn("senha incorreta", slog.String("user", user.Username))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	company, err := s.dir.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !company.IsActive {
		return nil, ErrCompanyInactive
	}

	token, expires, err := s.tokens.Issue(*user, company.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("login", slog.String("user", user.Username), slog.String("company_id", company.ID))

	return &Session{Token: token, ExpiresAt: expires, User: *user, Company: *company}, nil
}

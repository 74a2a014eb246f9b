package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gestao-diaristas/internal/storage"
)

var ErrInvalidToken = errors.New("token inválido ou expirado")

type Claims struct {
	UserID      int64    `json:"user_id"`
	CompanyID   string   `json:"company_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Tokens issues and checks HS256 tokens signed with one shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(user storage.User, companyID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := &Claims{
		UserID:      user.ID,
		CompanyID:   companyID,
		Role:        user.Role,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.Tokens.Issue: %w", err)
	}

	return signed, expires, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)

	tok, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID == 0 || claims.CompanyID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

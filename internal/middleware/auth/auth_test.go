package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/tenant"
)

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) Parse(raw string) (*authsvc.Claims, error) {
	args := m.Called(raw)
	c, _ := args.Get(0).(*authsvc.Claims)
	return c, args.Error(1)
}

type MockSessionOpener struct {
	mock.Mock
}

func (m *MockSessionOpener) NewSession(ctx context.Context, userID int64, companyID string) (*tenant.Session, error) {
	args := m.Called(ctx, userID, companyID)
	s, _ := args.Get(0).(*tenant.Session)
	return s, args.Error(1)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if sess, ok := tenant.FromContext(r.Context()); ok {
		w.Header().Set("X-User", sess.User.Username)
	}
	w.WriteHeader(http.StatusOK)
})

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBasicAuth(t *testing.T) {
	h := BasicAuth("admin", "s3nha")(okHandler)

	tests := []struct {
		name       string
		user, pass string
		setAuth    bool
		wantStatus int
	}{
		{"sem cabeçalho", "", "", false, http.StatusUnauthorized},
		{"senha errada", "admin", "x", true, http.StatusUnauthorized},
		{"usuário errado", "root", "s3nha", true, http.StatusUnauthorized},
		{"correto", "admin", "s3nha", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/companies", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBearer_Success(t *testing.T) {
	tokens := new(MockTokenParser)
	sessions := new(MockSessionOpener)

	tokens.On("Parse", "abc").Return(&authsvc.Claims{UserID: 3, CompanyID: "c1"}, nil)
	sessions.On("NewSession", mock.Anything, int64(3), "c1").
		Return(&tenant.Session{User: storage.User{ID: 3, Username: "ana"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()

	Bearer(discard(), tokens, sessions)(okHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ana", rr.Header().Get("X-User"))
	tokens.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestBearer_Refused(t *testing.T) {
	t.Run("sem token", func(t *testing.T) {
		tokens := new(MockTokenParser)
		sessions := new(MockSessionOpener)

		rr := httptest.NewRecorder()
		Bearer(discard(), tokens, sessions)(okHandler).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/workers", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		tokens.AssertNotCalled(t, "Parse", mock.Anything)
	})

	t.Run("token inválido", func(t *testing.T) {
		tokens := new(MockTokenParser)
		sessions := new(MockSessionOpener)
		tokens.On("Parse", "xyz").Return(nil, authsvc.ErrInvalidToken)

		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", "Bearer xyz")
		rr := httptest.NewRecorder()
		Bearer(discard(), tokens, sessions)(okHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		sessions.AssertNotCalled(t, "NewSession", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empresa inativa", func(t *testing.T) {
		tokens := new(MockTokenParser)
		sessions := new(MockSessionOpener)
		tokens.On("Parse", "abc").Return(&authsvc.Claims{UserID: 3, CompanyID: "c1"}, nil)
		sessions.On("NewSession", mock.Anything, int64(3), "c1").
			Return(nil, fmt.Errorf("tenant: %w", tenant.ErrCompanyInactive))

		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rr := httptest.NewRecorder()
		Bearer(discard(), tokens, sessions)(okHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(storage.PermProducao)(okHandler)

	serve := func(sess *tenant.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/api/productions", nil)
		if sess != nil {
			req = req.WithContext(tenant.WithSession(req.Context(), sess))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&tenant.Session{
		User: storage.User{Role: storage.RoleOperator, Permissions: []string{storage.PermDiarias}},
	}))
	assert.Equal(t, http.StatusOK, serve(&tenant.Session{
		User: storage.User{Role: storage.RoleOperator, Permissions: []string{storage.PermProducao}},
	}))
	assert.Equal(t, http.StatusOK, serve(&tenant.Session{User: storage.User{Role: storage.RoleAdmin}}))
}

func TestRequireAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/workers/1", nil)
	req = req.WithContext(tenant.WithSession(req.Context(), &tenant.Session{
		User: storage.User{Role: storage.RoleOperator, Permissions: storage.AllPermissions},
	}))
	rr := httptest.NewRecorder()
	RequireAdmin(okHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

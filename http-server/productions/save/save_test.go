package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gestao-diaristas/internal/service/allocation"
)

type MockProductionOpener struct {
	mock.Mock
}

func (m *MockProductionOpener) OpenProduction(ctx context.Context, name, startDate string) (int64, error) {
	args := m.Called(ctx, name, startDate)
	return args.Get(0).(int64), args.Error(1)
}

func post(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/productions", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSaveProduction_Success(t *testing.T) {
	opener := new(MockProductionOpener)
	opener.On("OpenProduction", mock.Anything, "Batch 1", "2024-01-01").Return(int64(3), nil)

	rr := httptest.NewRecorder()
	SaveProduction(slog.Default(), opener).ServeHTTP(rr, post(`{"name":"Batch 1","start_date":"2024-01-01"}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":3`)
	opener.AssertExpectations(t)
}

func TestSaveProduction_Invalid(t *testing.T) {
	opener := new(MockProductionOpener)

	for _, payload := range []string{`{"start_date":"2024-01-01"}`, `{"name":"Lote","start_date":"2024-13-01"}`, `{`} {
		rr := httptest.NewRecorder()
		SaveProduction(slog.Default(), opener).ServeHTTP(rr, post(payload))
		assert.Equal(t, http.StatusBadRequest, rr.Code, payload)
	}

	opener.AssertNotCalled(t, "OpenProduction", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveProduction_ServiceValidation(t *testing.T) {
	opener := new(MockProductionOpener)
	opener.On("OpenProduction", mock.Anything, " ", "2024-01-01").
		Return(int64(0), &allocation.ValidationError{Field: "name", Reason: "informe o nome da produção"})

	rr := httptest.NewRecorder()
	SaveProduction(slog.Default(), opener).ServeHTTP(rr, post(`{"name":" ","start_date":"2024-01-01"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "informe o nome")
}

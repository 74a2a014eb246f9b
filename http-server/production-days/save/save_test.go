package save

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gestao-diaristas/internal/service/allocation"
	"gestao-diaristas/internal/storage"
)

type MockDayRecorder struct {
	mock.Mock
}

func (m *MockDayRecorder) AddProductionDay(ctx context.Context, productionID int64, in allocation.DayInput) (int64, error) {
	args := m.Called(ctx, productionID, in)
	return args.Get(0).(int64), args.Error(1)
}

const body = `{
	"date": "2024-03-01",
	"total_quantity": 100,
	"divisions": [
		{"quantity": 60, "participants": [{"worker_id": 1, "quantity": 30}, {"worker_id": 2, "quantity": 30}]},
		{"quantity": 40, "participants": [{"worker_id": 3, "quantity": 40}]}
	]
}`

func newRequest(id, payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/productions/"+id+"/days", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSaveProductionDay_Success(t *testing.T) {
	days := new(MockDayRecorder)
	days.On("AddProductionDay", mock.Anything, int64(5), mock.MatchedBy(func(in allocation.DayInput) bool {
		return in.Date == "2024-03-01" &&
			in.TotalQuantity == 100 &&
			len(in.Divisions) == 2 &&
			len(in.Divisions[0].Participants) == 2 &&
			in.Divisions[1].Participants[0].WorkerID == 3
	})).Return(int64(11), nil)

	rr := httptest.NewRecorder()
	SaveProductionDay(slog.Default(), days).ServeHTTP(rr, newRequest("5", body))

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, float64(11), resp["id"])

	days.AssertExpectations(t)
}

func TestSaveProductionDay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{
			name:   "divisões não conferem",
			err:    fmt.Errorf("op: %w", &allocation.DivisionMismatchError{Declared: 100, Sum: 90}),
			status: http.StatusUnprocessableEntity,
			text:   "soma das divisões (90)",
		},
		{
			name:   "produção fechada",
			err:    fmt.Errorf("op: %w", &allocation.ProductionClosedError{ProductionID: 5}),
			status: http.StatusConflict,
			text:   "está fechada",
		},
		{
			name:   "diarista inativo",
			err:    fmt.Errorf("op: %w", &allocation.ValidationError{Field: "participants", Reason: "diarista Ana está inativo"}),
			status: http.StatusBadRequest,
			text:   "inativo",
		},
		{
			name:   "produção inexistente",
			err:    fmt.Errorf("op: %w", storage.ErrNotFound),
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := new(MockDayRecorder)
			days.On("AddProductionDay", mock.Anything, int64(5), mock.Anything).Return(int64(0), tt.err)

			rr := httptest.NewRecorder()
			SaveProductionDay(slog.Default(), days).ServeHTTP(rr, newRequest("5", body))

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.text)
		})
	}
}

func TestSaveProductionDay_BadRequest(t *testing.T) {
	days := new(MockDayRecorder)

	rr := httptest.NewRecorder()
	SaveProductionDay(slog.Default(), days).ServeHTTP(rr, newRequest("5", `{`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	SaveProductionDay(slog.Default(), days).ServeHTTP(rr, newRequest("abc", body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	days.AssertNotCalled(t, "AddProductionDay", mock.Anything, mock.Anything, mock.Anything)
}

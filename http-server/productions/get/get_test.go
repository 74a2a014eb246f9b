package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gestao-diaristas/internal/service/allocation"
	"gestao-diaristas/internal/storage"
)

type MockProductions struct {
	mock.Mock
}

func (m *MockProductions) ListProductions(ctx context.Context, status string) ([]storage.Production, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]storage.Production), args.Error(1)
}

func (m *MockProductions) GetProducao(ctx context.Context, id int64) (*storage.Production, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Production), args.Error(1)
}

func (m *MockProductions) GetTotaisDiaristas(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error) {
	args := m.Called(ctx, productionID)
	return args.Get(0).([]storage.WorkerTotal), args.Error(1)
}

func (m *MockProductions) VerifyRollup(ctx context.Context, productionID int64) ([]allocation.RollupMismatch, error) {
	args := m.Called(ctx, productionID)
	return args.Get(0).([]allocation.RollupMismatch), args.Error(1)
}

func newRouter(p *MockProductions) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/productions", GetProductions(slog.Default(), p))
	r.Get("/api/productions/{id}", GetProduction(slog.Default(), p))
	r.Get("/api/productions/{id}/totals", GetWorkerTotals(slog.Default(), p))
	r.Get("/api/productions/{id}/consistency", GetConsistency(slog.Default(), p))
	return r
}

func serve(p *MockProductions, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	newRouter(p).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestGetProductions(t *testing.T) {
	p := new(MockProductions)
	p.On("ListProductions", mock.Anything, storage.ProductionOpen).
		Return([]storage.Production{{ID: 1, Name: "Batch 1", Status: storage.ProductionOpen}}, nil)

	rr := serve(p, "/api/productions?status=aberta")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Batch 1")

	rr = serve(p, "/api/productions?status=cancelada")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	p.AssertNumberOfCalls(t, "ListProductions", 1)
}

func TestGetProduction(t *testing.T) {
	p := new(MockProductions)
	p.On("GetProducao", mock.Anything, int64(1)).Return(&storage.Production{
		ID: 1, Name: "Batch 1", Status: storage.ProductionOpen, TotalValue: decimal.RequireFromString("500"),
	}, nil)
	p.On("GetProducao", mock.Anything, int64(2)).Return(nil, fmt.Errorf("op: %w", storage.ErrNotFound))

	rr := serve(p, "/api/productions/1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Batch 1"`)

	rr = serve(p, "/api/productions/2")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(p, "/api/productions/x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetWorkerTotals(t *testing.T) {
	p := new(MockProductions)
	p.On("GetTotaisDiaristas", mock.Anything, int64(1)).Return([]storage.WorkerTotal{
		{ProductionID: 1, WorkerID: 4, WorkerName: "Ana", TotalUnits: 50, TotalValue: decimal.RequireFromString("250.00")},
	}, nil)

	rr := serve(p, "/api/productions/1/totals")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"worker_name":"Ana"`)
	assert.Contains(t, rr.Body.String(), `"total_units":50`)
}

func TestGetConsistency(t *testing.T) {
	p := new(MockProductions)
	p.On("VerifyRollup", mock.Anything, int64(1)).Return([]allocation.RollupMismatch(nil), nil)
	p.On("VerifyRollup", mock.Anything, int64(2)).Return([]allocation.RollupMismatch{
		{WorkerID: 4, ExpectedUnits: 10, MaterialUnits: 12},
	}, nil)

	rr := serve(p, "/api/productions/1/consistency")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"consistent":true`)

	rr = serve(p, "/api/productions/2/consistency")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"consistent":false`)
	assert.Contains(t, rr.Body.String(), `"material_units":12`)
}

package save

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gestao-diaristas/internal/storage"
)

type MockWorkerCreator struct {
	mock.Mock
}

func (m *MockWorkerCreator) CreateWorker(ctx context.Context, w storage.Worker) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

func post(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/workers", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNormalizeCPF(t *testing.T) {
	cpf, err := NormalizeCPF("123.456.789-09")
	assert.NoError(t, err)
	assert.Equal(t, "12345678909", cpf)

	_, err = NormalizeCPF("123.456.789")
	assert.Error(t, err)

	_, err = NormalizeCPF("123a4567890")
	assert.Error(t, err)
}

func TestSaveWorker_Success(t *testing.T) {
	workers := new(MockWorkerCreator)
	workers.On("CreateWorker", mock.Anything, storage.Worker{
		Name:          "Ana Souza",
		CPF:           "12345678909",
		Phone:         "(11) 99999-0000",
		IsActive:      true,
		AdmissionDate: "2024-01-10",
	}).Return(int64(1), nil)

	rr := httptest.NewRecorder()
	SaveWorker(slog.Default(), workers).ServeHTTP(rr, post(
		`{"name":" Ana Souza ","cpf":"123.456.789-09","phone":"(11) 99999-0000","admission_date":"2024-01-10"}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":1`)
	workers.AssertExpectations(t)
}

func TestSaveWorker_Duplicate(t *testing.T) {
	workers := new(MockWorkerCreator)
	workers.On("CreateWorker", mock.Anything, mock.Anything).
		Return(int64(0), fmt.Errorf("storage: %w", storage.ErrDuplicate))

	rr := httptest.NewRecorder()
	SaveWorker(slog.Default(), workers).ServeHTTP(rr, post(
		`{"name":"Ana","cpf":"12345678909","admission_date":"2024-01-10"}`))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSaveWorker_Invalid(t *testing.T) {
	workers := new(MockWorkerCreator)

	for _, payload := range []string{
		`{"cpf":"12345678909","admission_date":"2024-01-10"}`,
		`{"name":"Ana","cpf":"123","admission_date":"2024-01-10"}`,
		`{"name":"Ana","cpf":"12345678909","admission_date":"10/01/2024"}`,
	} {
		rr := httptest.NewRecorder()
		SaveWorker(slog.Default(), workers).ServeHTTP(rr, post(payload))
		assert.Equal(t, http.StatusBadRequest, rr.Code, payload)
	}

	workers.AssertNotCalled(t, "CreateWorker", mock.Anything, mock.Anything)
}

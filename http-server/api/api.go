// Package api holds what every handler shares: body decoding with struct
// validation, path and query parsing, and the mapping of domain errors to
// HTTP status codes.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"gestao-diaristas/internal/service/allocation"
	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/tenant"
)

const DateLayout = "2006-01-02"

// RequestError is a malformed request. It always maps to 400.
type RequestError struct {
	Message string
	Fields  map[string]string
}

func (e *RequestError) Error() string {
	return e.Message
}

func BadRequest(format string, args ...any) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// Decode reads the JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return BadRequest("JSON inválido")
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return BadRequest("dados inválidos")
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		return &RequestError{Message: "validação falhou", Fields: fields}
	}

	return nil
}

// Money checks that v is a positive amount with at most two decimal places.
func Money(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return BadRequest("%s deve ser maior que zero", field)
	}
	if !v.Equal(v.Round(2)) {
		return BadRequest("%s aceita no máximo duas casas decimais", field)
	}
	return nil
}

func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest("parâmetro %s inválido", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, BadRequest("parâmetro %s inválido", name)
	}
	return v, nil
}

// Period reads from, to, worker_id and cost_center_id from the query string.
// Missing dates default to the current month up to today.
func Period(r *http.Request, now time.Time) (storage.PeriodFilter, error) {
	q := r.URL.Query()
	f := storage.PeriodFilter{
		From: q.Get("from"),
		To:   q.Get("to"),
	}

	if f.From == "" {
		f.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, f.From); err != nil {
		return f, BadRequest("data inicial inválida")
	}

	if f.To == "" {
		f.To = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, f.To); err != nil {
		return f, BadRequest("data final inválida")
	}

	if f.To < f.From {
		return f, BadRequest("data final anterior à inicial")
	}

	var err error
	if f.WorkerID, err = queryInt(r, "worker_id"); err != nil {
		return f, err
	}
	if f.CostCenterID, err = queryInt(r, "cost_center_id"); err != nil {
		return f, err
	}

	return f, nil
}

// Fail writes the status matching err. Unexpected errors are logged with op
// and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	var (
		reqErr      *RequestError
		validErr    *allocation.ValidationError
		mismatchErr *allocation.DivisionMismatchError
		closedErr   *allocation.ProductionClosedError
	)

	switch {
	case errors.As(err, &reqErr):
		if len(reqErr.Fields) > 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{"error": reqErr.Message, "fields": reqErr.Fields})
			return
		}
		http.Error(w, reqErr.Message, http.StatusBadRequest)
	case errors.As(err, &validErr):
		http.Error(w, validErr.Error(), http.StatusBadRequest)
	case errors.As(err, &mismatchErr):
		http.Error(w, mismatchErr.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &closedErr):
		http.Error(w, closedErr.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, storage.ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrDuplicate):
		http.Error(w, storage.ErrDuplicate.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrInUse):
		http.Error(w, storage.ErrInUse.Error(), http.StatusConflict)
	case errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrUserInactive),
		errors.Is(err, authsvc.ErrCompanyInactive):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, tenant.ErrCompanyInactive):
		http.Error(w, tenant.ErrCompanyInactive.Error(), http.StatusConflict)
	default:
		log.Error("erro interno", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "erro interno do servidor", http.StatusInternalServerError)
	}
}

package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

type WorkerCreator interface {
	CreateWorker(ctx context.Context, w storage.Worker) (int64, error)
}

type Request struct {
	Name          string `json:"name" validate:"required,max=120"`
	CPF           string `json:"cpf" validate:"required"`
	Phone         string `json:"phone" validate:"max=30"`
	AdmissionDate string `json:"admission_date" validate:"required,date"`
}

// NormalizeCPF strips punctuation and checks the 11 digits.
func NormalizeCPF(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
		default:
			return "", api.BadRequest("CPF inválido")
		}
	}
	if b.Len() != 11 {
		return "", api.BadRequest("CPF deve ter 11 dígitos")
	}
	return b.String(), nil
}

func SaveWorker(log *slog.Logger, workers WorkerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.save.SaveWorker"

		var req Request
		if err := api.Decode(r, &req); err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		cpf, err := NormalizeCPF(req.CPF)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := workers.CreateWorker(ctx, storage.Worker{
			Name:          strings.TrimSpace(req.Name),
			CPF:           cpf,
			Phone:         strings.TrimSpace(req.Phone),
			IsActive:      true,
			AdmissionDate: req.AdmissionDate,
		})
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		log.Info("diarista cadastrado", slog.Int64("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"status": "created", "id": id})
	}
}

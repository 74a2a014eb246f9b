package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gestao-diaristas/http-server/api"
	"gestao-diaristas/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductionReport interface {
	ProductionWorkbook(ctx context.Context, productionID int64) ([]byte, error)
}

type PeriodReport interface {
	PeriodWorkbook(ctx context.Context, filter storage.PeriodFilter) ([]byte, error)
}

// GenerateProductionExcel returns the receipt workbook of one production.
func GenerateProductionExcel(log *slog.Logger, gen ProductionReport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.generate-report.GenerateProductionExcel"

		id, err := api.IDParam(r, "id")
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		// planilha pode demorar mais que uma consulta comum
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		data, err := gen.ProductionWorkbook(ctx, id)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		writeWorkbook(w, fmt.Sprintf("Producao_%d_%s.xlsx", id, time.Now().Format("2006-01-02_150405")), data)
	}
}

// GenerateReportExcel returns the diárias and serviços workbook of a period.
func GenerateReportExcel(log *slog.Logger, gen PeriodReport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.generate-report.GenerateReportExcel"

		filter, err := api.Period(r, time.Now())
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		data, err := gen.PeriodWorkbook(ctx, filter)
		if err != nil {
			api.Fail(w, r, log, op, err)
			return
		}

		writeWorkbook(w, fmt.Sprintf("Relatorio_%s_a_%s.xlsx", filter.From, filter.To), data)
	}
}

func writeWorkbook(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	w.Write(data)
}

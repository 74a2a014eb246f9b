package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"gestao-diaristas/internal/storage"
)

type Storage interface {
	GetProductionDetails(ctx context.Context, id int64) (*storage.Production, error)
	ListWorkerTotals(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error)
	ListDiarias(ctx context.Context, f storage.PeriodFilter) ([]storage.Diaria, error)
	ListServicos(ctx context.Context, f storage.PeriodFilter) ([]storage.Servico, error)
	PeriodSummary(ctx context.Context, f storage.PeriodFilter) (*storage.PeriodSummary, error)
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// numFmt 4 is the built-in "#,##0.00" format.
const moneyFmt = 4

type sheetWriter struct {
	f     *excelize.File
	sheet string
	money int
	bold  int
	row   int
}

func newSheetWriter(f *excelize.File, sheet string) (*sheetWriter, error) {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFmt})
	if err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, err
	}

	return &sheetWriter{f: f, sheet: sheet, money: money, bold: bold}, nil
}

// line writes values on the next row. decimal values become numbers with the
// money format.
func (w *sheetWriter) line(values ...any) {
	w.row++
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		if d, ok := v.(decimal.Decimal); ok {
			w.f.SetCellValue(w.sheet, cell, d.InexactFloat64())
			w.f.SetCellStyle(w.sheet, cell, cell, w.money)
			continue
		}
		w.f.SetCellValue(w.sheet, cell, v)
	}
}

func (w *sheetWriter) header(values ...any) {
	w.line(values...)
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(len(values), w.row)
	w.f.SetCellStyle(w.sheet, first, last, w.bold)
}

func (w *sheetWriter) skip() {
	w.row++
}

func statusLabel(status string) string {
	if status == storage.ProductionClosed {
		return "Fechada"
	}
	return "Aberta"
}

// ProductionWorkbook builds the receipt workbook of a production: a summary
// with one line per worker and a sheet with every day and division.
func (s *Service) ProductionWorkbook(ctx context.Context, productionID int64) ([]byte, error) {
	const op = "service.report.ProductionWorkbook"

	var (
		prod   *storage.Production
		totals []storage.WorkerTotal
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prod, err = s.storage.GetProductionDetails(gCtx, productionID)
		if err != nil {
			return fmt.Errorf("production: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totals, err = s.storage.ListWorkerTotals(gCtx, productionID)
		if err != nil {
			return fmt.Errorf("totals: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Resumo"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w, err := newSheetWriter(f, summary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	end := "-"
	if prod.EndDate != nil {
		end = *prod.EndDate
	}

	w.line("Produção", prod.Name)
	w.line("Início", prod.StartDate)
	w.line("Fim", end)
	w.line("Situação", statusLabel(prod.Status))
	w.line("Total de sacos", prod.TotalQuantity)
	w.line("Valor total", prod.TotalValue)
	w.skip()

	w.header("Diarista", "CPF", "Sacos", "Valor", "Assinatura")
	paid := decimal.Zero
	var units int64
	for _, t := range totals {
		w.line(t.WorkerName, t.CPF, t.TotalUnits, t.TotalValue, "")
		paid = paid.Add(t.TotalValue)
		units += t.TotalUnits
	}
	w.line("Total", "", units, paid, "")

	d, err := newSheetWriter(f, "Dias")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.header("Data", "Preço/saco", "Divisão", "Descrição", "Sacos divisão", "Valor divisão", "Diarista", "Sacos", "Valor")
	for _, day := range prod.Days {
		for _, div := range day.Divisions {
			for _, p := range div.Participants {
				d.line(day.Date, day.UnitPrice, div.Position, div.Description, div.Quantity, div.Value,
					p.WorkerName, p.Quantity, p.Value)
			}
		}
	}

	f.SetColWidth(summary, "A", "A", 28)
	f.SetColWidth(summary, "E", "E", 30)

	return writeFile(op, f)
}

// PeriodWorkbook lists diárias and serviços of a period with per worker and
// per cost center totals.
func (s *Service) PeriodWorkbook(ctx context.Context, filter storage.PeriodFilter) ([]byte, error) {
	const op = "service.report.PeriodWorkbook"

	var (
		diarias  []storage.Diaria
		servicos []storage.Servico
		summary  *storage.PeriodSummary
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		diarias, err = s.storage.ListDiarias(gCtx, filter)
		if err != nil {
			return fmt.Errorf("diarias: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		servicos, err = s.storage.ListServicos(gCtx, filter)
		if err != nil {
			return fmt.Errorf("servicos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		summary, err = s.storage.PeriodSummary(gCtx, filter)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const first = "Por diarista"
	if err := f.SetSheetName("Sheet1", first); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	writeSummary := func(sheet, label string, lines []storage.PeriodSummaryLine) error {
		w, err := newSheetWriter(f, sheet)
		if err != nil {
			return err
		}
		w.line("Período", filter.From, filter.To)
		w.skip()
		w.header(label, "Diárias", "Valor diárias", "Serviços", "Valor serviços", "Total")
		for _, l := range lines {
			w.line(l.Name, l.DiariaCount, l.DiariaTotal, l.ServicoCount, l.ServicoTotal, l.Total)
		}
		w.line("Total", "", "", "", "", summary.Total)
		return nil
	}

	if err := writeSummary(first, "Diarista", summary.ByWorker); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := writeSummary("Por centro de custo", "Centro de custo", summary.ByCostCenter); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dw, err := newSheetWriter(f, "Diárias")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dw.header("Data", "Diarista", "Centro de custo", "Descrição", "Valor", "Paga")
	for _, dr := range diarias {
		paid := "Não"
		if dr.Paid {
			paid = "Sim"
		}
		dw.line(dr.Date, dr.WorkerName, costCenterName(dr.CostCenterName), dr.Description, dr.Value, paid)
	}

	sw, err := newSheetWriter(f, "Serviços")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sw.header("Data", "Diarista", "Centro de custo", "Descrição", "Quantidade", "Valor unitário", "Valor")
	for _, sv := range servicos {
		sw.line(sv.Date, sv.WorkerName, costCenterName(sv.CostCenterName), sv.Description, sv.Quantity, sv.UnitValue, sv.Value)
	}

	return writeFile(op, f)
}

func costCenterName(name *string) string {
	if name == nil {
		return "-"
	}
	return *name
}

func writeFile(op string, f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}
	return buf.Bytes(), nil
}

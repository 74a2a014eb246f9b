package sqldb

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"gestao-diaristas/internal/storage"
)

const noCostCenter = "Sem centro de custo"

// PeriodSummary totals diárias and serviços per worker and per cost center.
// Sums are done on decimals in Go since sqlite stores money as text.
func (s *Storage) PeriodSummary(ctx context.Context, f storage.PeriodFilter) (*storage.PeriodSummary, error) {
	const op = "storage.sqldb.PeriodSummary"

	diarias, err := s.ListDiarias(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	servicos, err := s.ListServicos(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return BuildPeriodSummary(f, diarias, servicos), nil
}

func BuildPeriodSummary(f storage.PeriodFilter, diarias []storage.Diaria, servicos []storage.Servico) *storage.PeriodSummary {
	byWorker := map[int64]*storage.PeriodSummaryLine{}
	byCenter := map[int64]*storage.PeriodSummaryLine{}

	line := func(m map[int64]*storage.PeriodSummaryLine, id int64, name string) *storage.PeriodSummaryLine {
		l, ok := m[id]
		if !ok {
			l = &storage.PeriodSummaryLine{ID: id, Name: name}
			m[id] = l
		}
		return l
	}

	centerOf := func(id *int64, name *string) (int64, string) {
		if id == nil {
			return 0, noCostCenter
		}
		return *id, *name
	}

	total := decimal.Zero

	for _, d := range diarias {
		w := line(byWorker, d.WorkerID, d.WorkerName)
		w.DiariaCount++
		w.DiariaTotal = w.DiariaTotal.Add(d.Value)

		ccID, ccName := centerOf(d.CostCenterID, d.CostCenterName)
		c := line(byCenter, ccID, ccName)
		c.DiariaCount++
		c.DiariaTotal = c.DiariaTotal.Add(d.Value)

		total = total.Add(d.Value)
	}

	for _, sv := range servicos {
		w := line(byWorker, sv.WorkerID, sv.WorkerName)
		w.ServicoCount++
		w.ServicoTotal = w.ServicoTotal.Add(sv.Value)

		ccID, ccName := centerOf(sv.CostCenterID, sv.CostCenterName)
		c := line(byCenter, ccID, ccName)
		c.ServicoCount++
		c.ServicoTotal = c.ServicoTotal.Add(sv.Value)

		total = total.Add(sv.Value)
	}

	return &storage.PeriodSummary{
		From:         f.From,
		To:           f.To,
		ByWorker:     flattenLines(byWorker),
		ByCostCenter: flattenLines(byCenter),
		Total:        total,
	}
}

func flattenLines(m map[int64]*storage.PeriodSummaryLine) []storage.PeriodSummaryLine {
	lines := make([]storage.PeriodSummaryLine, 0, len(m))
	for _, l := range m {
		l.Total = l.DiariaTotal.Add(l.ServicoTotal)
		lines = append(lines, *l)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name == lines[j].Name {
			return lines[i].ID < lines[j].ID
		}
		return lines[i].Name < lines[j].Name
	})

	return lines
}

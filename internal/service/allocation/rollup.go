package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"gestao-diaristas/internal/storage"
)

// AggregateWorkerTotals rebuilds the per-worker rollup of a production from
// its participant rows. The result is ordered by worker id.
func AggregateWorkerTotals(productionID int64, parts []storage.Participation) []storage.WorkerTotal {
	byWorker := map[int64]*storage.WorkerTotal{}

	for _, p := range parts {
		wt, ok := byWorker[p.WorkerID]
		if !ok {
			wt = &storage.WorkerTotal{ProductionID: productionID, WorkerID: p.WorkerID}
			byWorker[p.WorkerID] = wt
		}
		wt.TotalUnits += p.Quantity
		wt.TotalValue = wt.TotalValue.Add(p.Value)
	}

	totals := make([]storage.WorkerTotal, 0, len(byWorker))
	for _, wt := range byWorker {
		totals = append(totals, *wt)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].WorkerID < totals[j].WorkerID })

	return totals
}

// AggregateProductionTotals returns sum(day.total_quantity) and
// sum(day.total_quantity * day.unit_price).
func AggregateProductionTotals(days []storage.ProductionDay) (int64, decimal.Decimal) {
	var qty int64
	value := decimal.Zero

	for _, d := range days {
		qty += d.TotalQuantity
		value = value.Add(d.UnitPrice.Mul(decimal.NewFromInt(d.TotalQuantity)))
	}

	return qty, value
}

type RollupMismatch struct {
	WorkerID      int64           `json:"worker_id"`
	ExpectedUnits int64           `json:"expected_units"`
	ExpectedValue decimal.Decimal `json:"expected_value"`
	MaterialUnits int64           `json:"material_units"`
	MaterialValue decimal.Decimal `json:"material_value"`
}

// CompareRollup lists every worker whose materialized total differs from the
// total recomputed from participant rows.
func CompareRollup(expected, materialized []storage.WorkerTotal) []RollupMismatch {
	want := make(map[int64]storage.WorkerTotal, len(expected))
	for _, wt := range expected {
		want[wt.WorkerID] = wt
	}
	have := make(map[int64]storage.WorkerTotal, len(materialized))
	for _, wt := range materialized {
		have[wt.WorkerID] = wt
	}

	ids := make([]int64, 0, len(want)+len(have))
	for id := range want {
		ids = append(ids, id)
	}
	for id := range have {
		if _, ok := want[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var mismatches []RollupMismatch
	for _, id := range ids {
		w, h := want[id], have[id]
		if w.TotalUnits == h.TotalUnits && w.TotalValue.Equal(h.TotalValue) {
			continue
		}
		mismatches = append(mismatches, RollupMismatch{
			WorkerID:      id,
			ExpectedUnits: w.TotalUnits,
			ExpectedValue: w.TotalValue,
			MaterialUnits: h.TotalUnits,
			MaterialValue: h.TotalValue,
		})
	}

	return mismatches
}

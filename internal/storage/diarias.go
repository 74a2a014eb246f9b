package storage

import "github.com/shopspring/decimal"

type Diaria struct {
	ID             int64           `json:"id"`
	WorkerID       int64           `json:"worker_id"`
	WorkerName     string          `json:"worker_name,omitempty"`
	CostCenterID   *int64          `json:"cost_center_id"`
	CostCenterName *string         `json:"cost_center_name,omitempty"`
	Date           string          `json:"date"`
	Value          decimal.Decimal `json:"value"`
	Description    string          `json:"description"`
	Paid           bool            `json:"paid"`
}

type Servico struct {
	ID             int64           `json:"id"`
	WorkerID       int64           `json:"worker_id"`
	WorkerName     string          `json:"worker_name,omitempty"`
	CostCenterID   *int64          `json:"cost_center_id"`
	CostCenterName *string         `json:"cost_center_name,omitempty"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitValue      decimal.Decimal `json:"unit_value"`
	Value          decimal.Decimal `json:"value"`
}

// PeriodFilter selects records by inclusive date range. Zero values mean
// "no restriction".
type PeriodFilter struct {
	From         string
	To           string
	WorkerID     int64
	CostCenterID int64
}

type PeriodSummaryLine struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	DiariaCount  int             `json:"diaria_count"`
	DiariaTotal  decimal.Decimal `json:"diaria_total"`
	ServicoCount int             `json:"servico_count"`
	ServicoTotal decimal.Decimal `json:"servico_total"`
	Total        decimal.Decimal `json:"total"`
}

type PeriodSummary struct {
	From         string              `json:"from"`
	To           string              `json:"to"`
	ByWorker     []PeriodSummaryLine `json:"by_worker"`
	ByCostCenter []PeriodSummaryLine `json:"by_cost_center"`
	Total        decimal.Decimal     `json:"total"`
}

package storage

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	ProductionOpen   = "aberta"
	ProductionClosed = "fechada"
)

type Production struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date"`
	Status        string          `json:"status"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Days          []ProductionDay `json:"days,omitempty"`
}

func (p *Production) IsClosed() bool {
	return p.Status == ProductionClosed
}

type ProductionDay struct {
	ID            int64           `json:"id"`
	ProductionID  int64           `json:"production_id"`
	Date          string          `json:"date"`
	TotalQuantity int64           `json:"total_quantity"`
	// UnitPrice is the price per unit at the moment the day was recorded.
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Divisions  []Division      `json:"divisions,omitempty"`
}

type Division struct {
	ID           int64           `json:"id"`
	DayID        int64           `json:"day_id"`
	Position     int             `json:"position"`
	Quantity     int64           `json:"quantity"`
	Description  string          `json:"description"`
	Value        decimal.Decimal `json:"value"`
	Participants []Participant   `json:"participants,omitempty"`
}

type Participant struct {
	ID         int64           `json:"id"`
	DivisionID int64           `json:"division_id"`
	WorkerID   int64           `json:"worker_id"`
	WorkerName string          `json:"worker_name,omitempty"`
	Quantity   int64           `json:"quantity"`
	Value      decimal.Decimal `json:"value"`
}

// WorkerTotal is the materialized per (production, worker) rollup.
type WorkerTotal struct {
	ProductionID int64           `json:"production_id"`
	WorkerID     int64           `json:"worker_id"`
	WorkerName   string          `json:"worker_name"`
	CPF          string          `json:"cpf"`
	TotalUnits   int64           `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// Participation is one participant row flattened with its day.
type Participation struct {
	DayID      int64
	DayDate    string
	DivisionID int64
	WorkerID   int64
	Quantity   int64
	Value      decimal.Decimal
}

// ProductionTx is the set of writes the allocation engine performs inside a
// single database transaction.
type ProductionTx interface {
	GetProduction(ctx context.Context, id int64) (*Production, error)
	GetProductionDay(ctx context.Context, id int64) (*ProductionDay, error)
	GetUnitPrice(ctx context.Context) (decimal.Decimal, error)
	GetWorkersByIDs(ctx context.Context, ids []int64) (map[int64]Worker, error)

	InsertProductionDay(ctx context.Context, day ProductionDay) (int64, error)
	InsertDivision(ctx context.Context, div Division) (int64, error)
	InsertParticipant(ctx context.Context, p Participant) (int64, error)
	AddWorkerTotal(ctx context.Context, productionID, workerID, units int64, value decimal.Decimal) error
	AddProductionTotals(ctx context.Context, productionID, quantity int64, value decimal.Decimal) error

	DeleteProductionDay(ctx context.Context, dayID int64) error
	ListProductionDays(ctx context.Context, productionID int64) ([]ProductionDay, error)
	ListParticipations(ctx context.Context, productionID int64) ([]Participation, error)
	ReplaceWorkerTotals(ctx context.Context, productionID int64, totals []WorkerTotal) error
	SetProductionTotals(ctx context.Context, productionID, quantity int64, value decimal.Decimal) error
	CloseProduction(ctx context.Context, productionID int64, endDate string, quantity int64, value decimal.Decimal) error
}

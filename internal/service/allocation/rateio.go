package allocation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ParticipantInput struct {
	WorkerID int64 `json:"worker_id"`
	// Quantity is the number of units credited to the worker. It is recorded
	// for audit and totals only; it does not weight the payment.
	Quantity int64 `json:"quantity"`
}

type DivisionInput struct {
	Quantity     int64              `json:"quantity"`
	Description  string             `json:"description"`
	Participants []ParticipantInput `json:"participants"`
}

type DayInput struct {
	Date          string          `json:"date"`
	TotalQuantity int64           `json:"total_quantity"`
	Divisions     []DivisionInput `json:"divisions"`
	// Participants, when given without divisions, form one implicit
	// division covering the whole day.
	Participants []ParticipantInput `json:"participants,omitempty"`
}

func (in DayInput) withImplicitDivision() DayInput {
	if len(in.Divisions) == 0 && len(in.Participants) > 0 {
		in.Divisions = []DivisionInput{{Quantity: in.TotalQuantity, Participants: in.Participants}}
		in.Participants = nil
	}
	return in
}

type PlannedDivision struct {
	Quantity     int64
	Description  string
	Value        decimal.Decimal
	Share        decimal.Decimal
	Participants []ParticipantInput
}

// Plan is the computed outcome of a production day, ready to be persisted.
type Plan struct {
	Date          string
	TotalQuantity int64
	UnitPrice     decimal.Decimal
	TotalValue    decimal.Decimal
	Divisions     []PlannedDivision
}

// Validate checks the shape of a day input. It does not look at the database:
// production state, unit price and worker status are checked by the service.
func Validate(in DayInput) error {
	if len(in.Divisions) > 0 && len(in.Participants) > 0 {
		return invalid("participants", "informe participantes por divisão ou sem divisões, não ambos")
	}
	in = in.withImplicitDivision()

	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return invalid("date", "data inválida %q, use AAAA-MM-DD", in.Date)
	}

	if in.TotalQuantity <= 0 {
		return invalid("total_quantity", "quantidade total deve ser maior que zero")
	}

	if len(in.Divisions) == 0 {
		return invalid("divisions", "informe ao menos uma divisão")
	}

	var sum int64
	for i, d := range in.Divisions {
		if d.Quantity <= 0 {
			return invalid("divisions", "divisão %d: quantidade deve ser maior que zero", i+1)
		}
		if len(d.Participants) == 0 {
			return invalid("divisions", "divisão %d: informe ao menos um participante", i+1)
		}

		seen := make(map[int64]struct{}, len(d.Participants))
		for _, p := range d.Participants {
			if p.WorkerID <= 0 {
				return invalid("participants", "divisão %d: diarista não informado", i+1)
			}
			if p.Quantity < 0 {
				return invalid("participants", "divisão %d: quantidade do diarista %d não pode ser negativa", i+1, p.WorkerID)
			}
			// limita o crédito do dia por diarista ao total do dia
			if p.Quantity > d.Quantity {
				return invalid("participants", "divisão %d: quantidade do diarista %d maior que a da divisão", i+1, p.WorkerID)
			}
			if _, dup := seen[p.WorkerID]; dup {
				return invalid("participants", "divisão %d: diarista %d repetido", i+1, p.WorkerID)
			}
			seen[p.WorkerID] = struct{}{}
		}

		// comparado antes de somar para não estourar int64
		if d.Quantity > in.TotalQuantity-sum {
			return &DivisionMismatchError{Declared: in.TotalQuantity, Sum: saturatingAdd(sum, d.Quantity)}
		}
		sum += d.Quantity
	}

	if sum != in.TotalQuantity {
		return &DivisionMismatchError{Declared: in.TotalQuantity, Sum: sum}
	}

	return nil
}

func saturatingAdd(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// Share splits value evenly by headcount, rounded half-up to cents. The
// remainder left by rounding is not redistributed.
func Share(value decimal.Decimal, headcount int) decimal.Decimal {
	return value.DivRound(decimal.NewFromInt(int64(headcount)), 2)
}

// Allocate validates in and computes division values and per-participant
// shares at unitPrice.
func Allocate(unitPrice decimal.Decimal, in DayInput) (*Plan, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	in = in.withImplicitDivision()

	if !unitPrice.IsPositive() {
		return nil, invalid("unit_price", "preço por saco não configurado")
	}

	plan := &Plan{
		Date:          in.Date,
		TotalQuantity: in.TotalQuantity,
		UnitPrice:     unitPrice,
		TotalValue:    unitPrice.Mul(decimal.NewFromInt(in.TotalQuantity)),
		Divisions:     make([]PlannedDivision, 0, len(in.Divisions)),
	}

	for _, d := range in.Divisions {
		value := unitPrice.Mul(decimal.NewFromInt(d.Quantity))
		plan.Divisions = append(plan.Divisions, PlannedDivision{
			Quantity:     d.Quantity,
			Description:  d.Description,
			Value:        value,
			Share:        Share(value, len(d.Participants)),
			Participants: d.Participants,
		})
	}

	return plan, nil
}

// WorkerIDs returns the distinct workers of the plan in first-seen order.
func (p *Plan) WorkerIDs() []int64 {
	var ids []int64
	seen := map[int64]struct{}{}
	for _, d := range p.Divisions {
		for _, part := range d.Participants {
			if _, ok := seen[part.WorkerID]; !ok {
				seen[part.WorkerID] = struct{}{}
				ids = append(ids, part.WorkerID)
			}
		}
	}
	return ids
}

package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gestao-diaristas/internal/storage"
)

type Store interface {
	InProductionTx(ctx context.Context, fn func(tx storage.ProductionTx) error) error
	CreateProduction(ctx context.Context, p storage.Production) (int64, error)
	GetProductionDetails(ctx context.Context, id int64) (*storage.Production, error)
	ListWorkerTotals(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error)
	ListParticipations(ctx context.Context, productionID int64) ([]storage.Participation, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) OpenProduction(ctx context.Context, name, startDate string) (int64, error) {
	const op = "service.allocation.OpenProduction"

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("name", "informe o nome da produção")
	}
	if _, err := time.Parse(dateLayout, startDate); err != nil {
		return 0, invalid("start_date", "data inválida %q, use AAAA-MM-DD", startDate)
	}

	id, err := s.store.CreateProduction(ctx, storage.Production{Name: name, StartDate: startDate})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("produção aberta", slog.Int64("production_id", id), slog.String("name", name))

	return id, nil
}

// AddProductionDay records one day of output, splits its value among the
// participants of each division and updates the rollups, all in one
// transaction.
func (s *Service) AddProductionDay(ctx context.Context, productionID int64, in DayInput) (int64, error) {
	const op = "service.allocation.AddProductionDay"

	if err := Validate(in); err != nil {
		return 0, err
	}

	var dayID int64

	err := s.store.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		prod, err := tx.GetProduction(ctx, productionID)
		if err != nil {
			return err
		}
		if prod.IsClosed() {
			return &ProductionClosedError{ProductionID: productionID}
		}
		if in.Date < prod.StartDate {
			return invalid("date", "data %s anterior ao início da produção (%s)", in.Date, prod.StartDate)
		}
		if in.TotalQuantity > math.MaxInt64-prod.TotalQuantity {
			return invalid("total_quantity", "quantidade total excede o limite acumulado da produção")
		}

		// preço lido uma única vez e gravado no dia
		price, err := tx.GetUnitPrice(ctx)
		if err != nil {
			return err
		}

		plan, err := Allocate(price, in)
		if err != nil {
			return err
		}

		if err := checkWorkers(ctx, tx, plan.WorkerIDs()); err != nil {
			return err
		}

		dayID, err = tx.InsertProductionDay(ctx, storage.ProductionDay{
			ProductionID:  productionID,
			Date:          plan.Date,
			TotalQuantity: plan.TotalQuantity,
			UnitPrice:     plan.UnitPrice,
			TotalValue:    plan.TotalValue,
		})
		if err != nil {
			return err
		}

		type credit struct {
			units int64
			value decimal.Decimal
		}
		credits := map[int64]*credit{}

		for i, d := range plan.Divisions {
			divID, err := tx.InsertDivision(ctx, storage.Division{
				DayID:       dayID,
				Position:    i + 1,
				Quantity:    d.Quantity,
				Description: d.Description,
				Value:       d.Value,
			})
			if err != nil {
				return err
			}

			for _, p := range d.Participants {
				_, err := tx.InsertParticipant(ctx, storage.Participant{
					DivisionID: divID,
					WorkerID:   p.WorkerID,
					Quantity:   p.Quantity,
					Value:      d.Share,
				})
				if err != nil {
					return err
				}

				c, ok := credits[p.WorkerID]
				if !ok {
					c = &credit{}
					credits[p.WorkerID] = c
				}
				c.units += p.Quantity
				c.value = c.value.Add(d.Share)
			}
		}

		for _, workerID := range plan.WorkerIDs() {
			c := credits[workerID]
			if err := tx.AddWorkerTotal(ctx, productionID, workerID, c.units, c.value); err != nil {
				return err
			}
		}

		return tx.AddProductionTotals(ctx, productionID, plan.TotalQuantity, plan.TotalValue)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("dia de produção registrado",
		slog.Int64("production_id", productionID),
		slog.Int64("day_id", dayID),
		slog.String("date", in.Date),
		slog.Int64("total_quantity", in.TotalQuantity),
	)

	return dayID, nil
}

func checkWorkers(ctx context.Context, tx storage.ProductionTx, ids []int64) error {
	workers, err := tx.GetWorkersByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, id := range ids {
		w, ok := workers[id]
		if !ok {
			return invalid("participants", "diarista %d não encontrado", id)
		}
		if !w.IsActive {
			return invalid("participants", "diarista %s está inativo", w.Name)
		}
	}

	return nil
}

// DeleteProductionDay removes a day with its divisions and participants and
// rebuilds every rollup of the production from the remaining rows.
func (s *Service) DeleteProductionDay(ctx context.Context, dayID int64) error {
	const op = "service.allocation.DeleteProductionDay"

	var productionID int64

	err := s.store.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		day, err := tx.GetProductionDay(ctx, dayID)
		if err != nil {
			return err
		}
		productionID = day.ProductionID

		prod, err := tx.GetProduction(ctx, day.ProductionID)
		if err != nil {
			return err
		}
		if prod.IsClosed() {
			return &ProductionClosedError{ProductionID: prod.ID}
		}

		if err := tx.DeleteProductionDay(ctx, dayID); err != nil {
			return err
		}

		return recompute(ctx, tx, prod.ID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("dia de produção excluído",
		slog.Int64("production_id", productionID),
		slog.Int64("day_id", dayID),
	)

	return nil
}

func recompute(ctx context.Context, tx storage.ProductionTx, productionID int64) error {
	parts, err := tx.ListParticipations(ctx, productionID)
	if err != nil {
		return err
	}
	if err := tx.ReplaceWorkerTotals(ctx, productionID, AggregateWorkerTotals(productionID, parts)); err != nil {
		return err
	}

	days, err := tx.ListProductionDays(ctx, productionID)
	if err != nil {
		return err
	}
	qty, value := AggregateProductionTotals(days)

	return tx.SetProductionTotals(ctx, productionID, qty, value)
}

// CloseProduction freezes the production totals and makes it read-only.
func (s *Service) CloseProduction(ctx context.Context, productionID int64, endDate string) (*storage.Production, error) {
	const op = "service.allocation.CloseProduction"

	if _, err := time.Parse(dateLayout, endDate); err != nil {
		return nil, invalid("end_date", "data inválida %q, use AAAA-MM-DD", endDate)
	}

	var closed *storage.Production

	err := s.store.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		prod, err := tx.GetProduction(ctx, productionID)
		if err != nil {
			return err
		}
		if prod.IsClosed() {
			return &ProductionClosedError{ProductionID: productionID}
		}
		if endDate < prod.StartDate {
			return invalid("end_date", "data final %s anterior ao início da produção (%s)", endDate, prod.StartDate)
		}

		days, err := tx.ListProductionDays(ctx, productionID)
		if err != nil {
			return err
		}
		qty, value := AggregateProductionTotals(days)

		if err := tx.CloseProduction(ctx, productionID, endDate, qty, value); err != nil {
			return err
		}

		closed, err = tx.GetProduction(ctx, productionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("produção fechada",
		slog.Int64("production_id", productionID),
		slog.Int64("total_quantity", closed.TotalQuantity),
		slog.String("total_value", closed.TotalValue.StringFixed(2)),
	)

	return closed, nil
}

// GetProducao returns the production with its days, divisions and
// participants.
func (s *Service) GetProducao(ctx context.Context, id int64) (*storage.Production, error) {
	const op = "service.allocation.GetProducao"

	p, err := s.store.GetProductionDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Service) GetTotaisDiaristas(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error) {
	const op = "service.allocation.GetTotaisDiaristas"

	totals, err := s.store.ListWorkerTotals(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return totals, nil
}

// VerifyRollup recomputes the worker totals of a production from scratch and
// reports every difference with the stored rollup. An empty result means the
// rollup is consistent.
func (s *Service) VerifyRollup(ctx context.Context, productionID int64) ([]RollupMismatch, error) {
	const op = "service.allocation.VerifyRollup"

	parts, err := s.store.ListParticipations(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored, err := s.store.ListWorkerTotals(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mismatches := CompareRollup(AggregateWorkerTotals(productionID, parts), stored)
	if len(mismatches) > 0 {
		s.log.Warn("totais por diarista divergentes",
			slog.Int64("production_id", productionID),
			slog.Int("mismatches", len(mismatches)),
		)
	}

	return mismatches, nil
}

package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"gestao-diaristas/internal/storage"
)

// InProductionTx runs fn inside one transaction. The transaction is committed
// only when fn returns nil; any error rolls back every write made by fn.
func (s *Storage) InProductionTx(ctx context.Context, fn func(tx storage.ProductionTx) error) error {
	const op = "storage.sqldb.InProductionTx"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(&productionTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

type productionTx struct {
	tx *sql.Tx
}

func (t *productionTx) GetProduction(ctx context.Context, id int64) (*storage.Production, error) {
	const op = "storage.sqldb.tx.GetProduction"

	p, err := getProduction(ctx, t.tx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (t *productionTx) GetProductionDay(ctx context.Context, id int64) (*storage.ProductionDay, error) {
	const op = "storage.sqldb.tx.GetProductionDay"

	var d storage.ProductionDay
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, production_id, work_date, total_quantity, unit_price, total_value
		FROM production_days WHERE id = ?`, id).
		Scan(&d.ID, &d.ProductionID, &d.Date, &d.TotalQuantity, &d.UnitPrice, &d.TotalValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: dia de produção id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

func (t *productionTx) GetUnitPrice(ctx context.Context) (decimal.Decimal, error) {
	const op = "storage.sqldb.tx.GetUnitPrice"

	price, err := getUnitPrice(ctx, t.tx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return price, nil
}

func (t *productionTx) GetWorkersByIDs(ctx context.Context, ids []int64) (map[int64]storage.Worker, error) {
	const op = "storage.sqldb.tx.GetWorkersByIDs"

	workers := make(map[int64]storage.Worker, len(ids))
	if len(ids) == 0 {
		return workers, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		workers[w.ID] = w
	}

	return workers, rows.Err()
}

func (t *productionTx) InsertProductionDay(ctx context.Context, day storage.ProductionDay) (int64, error) {
	const op = "storage.sqldb.tx.InsertProductionDay"

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO production_days (production_id, work_date, total_quantity, unit_price, total_value)
		VALUES (?, ?, ?, ?, ?)`,
		day.ProductionID, day.Date, day.TotalQuantity, day.UnitPrice.StringFixed(2), day.TotalValue.StringFixed(2))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

func (t *productionTx) InsertDivision(ctx context.Context, div storage.Division) (int64, error) {
	const op = "storage.sqldb.tx.InsertDivision"

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO production_divisions (day_id, position, quantity, description, value)
		VALUES (?, ?, ?, ?, ?)`,
		div.DayID, div.Position, div.Quantity, div.Description, div.Value.StringFixed(2))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

func (t *productionTx) InsertParticipant(ctx context.Context, p storage.Participant) (int64, error) {
	const op = "storage.sqldb.tx.InsertParticipant"

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO production_participants (division_id, worker_id, quantity, value)
		VALUES (?, ?, ?, ?)`,
		p.DivisionID, p.WorkerID, p.Quantity, p.Value.StringFixed(2))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

func (t *productionTx) getWorkerTotal(ctx context.Context, productionID, workerID int64) (*storage.WorkerTotal, error) {
	var wt storage.WorkerTotal
	err := t.tx.QueryRowContext(ctx, `
		SELECT production_id, worker_id, total_units, total_value
		FROM worker_production_totals WHERE production_id = ? AND worker_id = ?`, productionID, workerID).
		Scan(&wt.ProductionID, &wt.WorkerID, &wt.TotalUnits, &wt.TotalValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wt, nil
}

// AddWorkerTotal upserts the rollup row. The sum is done on decimals here
// rather than in SQL so both dialects keep exact cents.
func (t *productionTx) AddWorkerTotal(ctx context.Context, productionID, workerID, units int64, value decimal.Decimal) error {
	const op = "storage.sqldb.tx.AddWorkerTotal"

	current, err := t.getWorkerTotal(ctx, productionID, workerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if current == nil {
		_, err = t.tx.ExecContext(ctx, `
			INSERT INTO worker_production_totals (production_id, worker_id, total_units, total_value)
			VALUES (?, ?, ?, ?)`, productionID, workerID, units, value.StringFixed(2))
	} else {
		_, err = t.tx.ExecContext(ctx, `
			UPDATE worker_production_totals SET total_units = ?, total_value = ?
			WHERE production_id = ? AND worker_id = ?`,
			current.TotalUnits+units, current.TotalValue.Add(value).StringFixed(2), productionID, workerID)
	}
	if err != nil {
		return fmt.Errorf("%s: produção=%d diarista=%d: %w", op, productionID, workerID, err)
	}

	return nil
}

func (t *productionTx) AddProductionTotals(ctx context.Context, productionID, quantity int64, value decimal.Decimal) error {
	const op = "storage.sqldb.tx.AddProductionTotals"

	p, err := getProduction(ctx, t.tx, productionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return t.setProductionTotals(ctx, op, productionID, p.TotalQuantity+quantity, p.TotalValue.Add(value))
}

func (t *productionTx) SetProductionTotals(ctx context.Context, productionID, quantity int64, value decimal.Decimal) error {
	return t.setProductionTotals(ctx, "storage.sqldb.tx.SetProductionTotals", productionID, quantity, value)
}

func (t *productionTx) setProductionTotals(ctx context.Context, op string, productionID, quantity int64, value decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE productions SET total_quantity = ?, total_value = ? WHERE id = ?`,
		quantity, value.StringFixed(2), productionID)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, productionID, err)
	}
	return nil
}

// DeleteProductionDay removes the day together with its divisions and
// participants. Children go first so foreign keys hold on mysql.
func (t *productionTx) DeleteProductionDay(ctx context.Context, dayID int64) error {
	const op = "storage.sqldb.tx.DeleteProductionDay"

	_, err := t.tx.ExecContext(ctx, `
		DELETE FROM production_participants
		WHERE division_id IN (SELECT id FROM production_divisions WHERE day_id = ?)`, dayID)
	if err != nil {
		return fmt.Errorf("%s: participantes do dia id=%d: %w", op, dayID, err)
	}

	_, err = t.tx.ExecContext(ctx, `DELETE FROM production_divisions WHERE day_id = ?`, dayID)
	if err != nil {
		return fmt.Errorf("%s: divisões do dia id=%d: %w", op, dayID, err)
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM production_days WHERE id = ?`, dayID)
	if err != nil {
		return fmt.Errorf("%s: dia id=%d: %w", op, dayID, err)
	}

	return expectAffected(op, res, dayID)
}

func (t *productionTx) ListProductionDays(ctx context.Context, productionID int64) ([]storage.ProductionDay, error) {
	const op = "storage.sqldb.tx.ListProductionDays"

	days, err := listProductionDays(ctx, t.tx, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return days, nil
}

func (t *productionTx) ListParticipations(ctx context.Context, productionID int64) ([]storage.Participation, error) {
	const op = "storage.sqldb.tx.ListParticipations"

	parts, err := listParticipations(ctx, t.tx, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return parts, nil
}

// ReplaceWorkerTotals drops every rollup row of the production and writes
// totals in their place.
func (t *productionTx) ReplaceWorkerTotals(ctx context.Context, productionID int64, totals []storage.WorkerTotal) error {
	const op = "storage.sqldb.tx.ReplaceWorkerTotals"

	_, err := t.tx.ExecContext(ctx, `DELETE FROM worker_production_totals WHERE production_id = ?`, productionID)
	if err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	if len(totals) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO worker_production_totals (production_id, worker_id, total_units, total_value)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, wt := range totals {
		if _, err := stmt.ExecContext(ctx, productionID, wt.WorkerID, wt.TotalUnits, wt.TotalValue.StringFixed(2)); err != nil {
			return fmt.Errorf("%s: diarista=%d: %w", op, wt.WorkerID, err)
		}
	}

	return nil
}

func (t *productionTx) CloseProduction(ctx context.Context, productionID int64, endDate string, quantity int64, value decimal.Decimal) error {
	const op = "storage.sqldb.tx.CloseProduction"

	res, err := t.tx.ExecContext(ctx, `
		UPDATE productions SET status = ?, end_date = ?, total_quantity = ?, total_value = ?
		WHERE id = ? AND status = ?`,
		storage.ProductionClosed, endDate, quantity, value.StringFixed(2), productionID, storage.ProductionOpen)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, productionID, err)
	}

	return expectAffected(op, res, productionID)
}

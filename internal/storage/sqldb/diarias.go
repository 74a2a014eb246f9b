package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"gestao-diaristas/internal/storage"
)

// periodWhere builds the shared WHERE clause of diárias and serviços
// listings. alias is the table alias of the record table.
func periodWhere(alias string, f storage.PeriodFilter) (string, []any) {
	where := ` WHERE 1 = 1`
	var args []any

	if f.From != "" {
		where += ` AND ` + alias + `.work_date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		where += ` AND ` + alias + `.work_date <= ?`
		args = append(args, f.To)
	}
	if f.WorkerID != 0 {
		where += ` AND ` + alias + `.worker_id = ?`
		args = append(args, f.WorkerID)
	}
	if f.CostCenterID != 0 {
		where += ` AND ` + alias + `.cost_center_id = ?`
		args = append(args, f.CostCenterID)
	}

	return where, args
}

func (s *Storage) CreateDiaria(ctx context.Context, d storage.Diaria) (int64, error) {
	const op = "storage.sqldb.CreateDiaria"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO diarias (worker_id, cost_center_id, work_date, value, description, paid)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.WorkerID, d.CostCenterID, d.Date, d.Value.StringFixed(2), d.Description, d.Paid)
	if err != nil {
		return 0, fmt.Errorf("%s: erro ao salvar diária: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) ListDiarias(ctx context.Context, f storage.PeriodFilter) ([]storage.Diaria, error) {
	const op = "storage.sqldb.ListDiarias"

	where, args := periodWhere("d", f)
	query := `
		SELECT d.id, d.worker_id, w.name, d.cost_center_id, c.name, d.work_date, d.value, d.description, d.paid
		FROM diarias d
		JOIN workers w ON w.id = d.worker_id
		LEFT JOIN cost_centers c ON c.id = d.cost_center_id` + where + `
		ORDER BY d.work_date ASC, w.name ASC, d.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao listar diárias: %w", op, err)
	}
	defer rows.Close()

	diarias := []storage.Diaria{}
	for rows.Next() {
		var (
			d      storage.Diaria
			ccID   sql.NullInt64
			ccName sql.NullString
		)
		err := rows.Scan(&d.ID, &d.WorkerID, &d.WorkerName, &ccID, &ccName, &d.Date, &d.Value, &d.Description, &d.Paid)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if ccID.Valid {
			d.CostCenterID = &ccID.Int64
			d.CostCenterName = &ccName.String
		}
		diarias = append(diarias, d)
	}

	return diarias, rows.Err()
}

func (s *Storage) SetDiariaPaid(ctx context.Context, id int64, paid bool) error {
	const op = "storage.sqldb.SetDiariaPaid"

	res, err := s.db.ExecContext(ctx, `UPDATE diarias SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectAffected(op, res, id)
}

func (s *Storage) DeleteDiaria(ctx context.Context, id int64) error {
	const op = "storage.sqldb.DeleteDiaria"

	res, err := s.db.ExecContext(ctx, `DELETE FROM diarias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectAffected(op, res, id)
}

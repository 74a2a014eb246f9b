package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gestao-diaristas/internal/storage"
)

const productionColumns = `id, name, start_date, end_date, status, total_quantity, total_value`

func scanProduction(row rowScanner) (storage.Production, error) {
	var (
		p   storage.Production
		end sql.NullString
	)

	if err := row.Scan(&p.ID, &p.Name, &p.StartDate, &end, &p.Status, &p.TotalQuantity, &p.TotalValue); err != nil {
		return p, err
	}
	if end.Valid {
		p.EndDate = &end.String
	}

	return p, nil
}

func getProduction(ctx context.Context, q queryer, id int64) (*storage.Production, error) {
	p, err := scanProduction(q.QueryRowContext(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("produção id=%d: %w", id, storage.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreateProduction(ctx context.Context, p storage.Production) (int64, error) {
	const op = "storage.sqldb.CreateProduction"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO productions (name, start_date, status, total_quantity, total_value)
		VALUES (?, ?, ?, 0, '0.00')`,
		p.Name, p.StartDate, storage.ProductionOpen)
	if err != nil {
		return 0, fmt.Errorf("%s: erro ao abrir produção: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) ListProductions(ctx context.Context, status string) ([]storage.Production, error) {
	const op = "storage.sqldb.ListProductions"

	query := `SELECT ` + productionColumns + ` FROM productions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY start_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	productions := []storage.Production{}
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		productions = append(productions, p)
	}

	return productions, rows.Err()
}

func (s *Storage) GetProduction(ctx context.Context, id int64) (*storage.Production, error) {
	const op = "storage.sqldb.GetProduction"

	p, err := getProduction(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// GetProductionDetails loads a production with its days, divisions and
// participants, in insertion order.
func (s *Storage) GetProductionDetails(ctx context.Context, id int64) (*storage.Production, error) {
	const op = "storage.sqldb.GetProductionDetails"

	p, err := getProduction(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days, err := listProductionDays(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("%s: dias: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT dv.id, dv.day_id, dv.position, dv.quantity, dv.description, dv.value,
		       pp.id, pp.worker_id, w.name, pp.quantity, pp.value
		FROM production_divisions dv
		JOIN production_days d ON d.id = dv.day_id
		LEFT JOIN production_participants pp ON pp.division_id = dv.id
		LEFT JOIN workers w ON w.id = pp.worker_id
		WHERE d.production_id = ?
		ORDER BY dv.day_id, dv.position, pp.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: divisões: %w", op, err)
	}
	defer rows.Close()

	dayIdx := make(map[int64]int, len(days))
	for i := range days {
		dayIdx[days[i].ID] = i
	}

	for rows.Next() {
		var (
			dv      storage.Division
			partID  sql.NullInt64
			worker  sql.NullInt64
			name    sql.NullString
			units   sql.NullInt64
			partVal sql.NullString
		)

		err := rows.Scan(&dv.ID, &dv.DayID, &dv.Position, &dv.Quantity, &dv.Description, &dv.Value,
			&partID, &worker, &name, &units, &partVal)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		i, ok := dayIdx[dv.DayID]
		if !ok {
			continue
		}
		day := &days[i]

		if n := len(day.Divisions); n == 0 || day.Divisions[n-1].ID != dv.ID {
			day.Divisions = append(day.Divisions, dv)
		}

		if partID.Valid {
			part := storage.Participant{
				ID:         partID.Int64,
				DivisionID: dv.ID,
				WorkerID:   worker.Int64,
				WorkerName: name.String,
				Quantity:   units.Int64,
			}
			if err := part.Value.Scan(partVal.String); err != nil {
				return nil, fmt.Errorf("%s: valor do participante: %w", op, err)
			}
			div := &day.Divisions[len(day.Divisions)-1]
			div.Participants = append(div.Participants, part)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.Days = days

	return p, nil
}

func listProductionDays(ctx context.Context, q queryer, productionID int64) ([]storage.ProductionDay, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, production_id, work_date, total_quantity, unit_price, total_value
		FROM production_days WHERE production_id = ?
		ORDER BY work_date, id`, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []storage.ProductionDay{}
	for rows.Next() {
		var d storage.ProductionDay
		if err := rows.Scan(&d.ID, &d.ProductionID, &d.Date, &d.TotalQuantity, &d.UnitPrice, &d.TotalValue); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

func listParticipations(ctx context.Context, q queryer, productionID int64) ([]storage.Participation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT d.id, d.work_date, dv.id, pp.worker_id, pp.quantity, pp.value
		FROM production_participants pp
		JOIN production_divisions dv ON dv.id = pp.division_id
		JOIN production_days d ON d.id = dv.day_id
		WHERE d.production_id = ?
		ORDER BY d.id, dv.position, pp.id`, productionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []storage.Participation
	for rows.Next() {
		var p storage.Participation
		if err := rows.Scan(&p.DayID, &p.DayDate, &p.DivisionID, &p.WorkerID, &p.Quantity, &p.Value); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}

	return parts, rows.Err()
}

// ListParticipations returns every participant row of a production.
func (s *Storage) ListParticipations(ctx context.Context, productionID int64) ([]storage.Participation, error) {
	const op = "storage.sqldb.ListParticipations"

	parts, err := listParticipations(ctx, s.db, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return parts, nil
}

func (s *Storage) ListWorkerTotals(ctx context.Context, productionID int64) ([]storage.WorkerTotal, error) {
	const op = "storage.sqldb.ListWorkerTotals"

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.production_id, t.worker_id, w.name, w.cpf, t.total_units, t.total_value
		FROM worker_production_totals t
		JOIN workers w ON w.id = t.worker_id
		WHERE t.production_id = ?
		ORDER BY w.name, t.worker_id`, productionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	totals := []storage.WorkerTotal{}
	for rows.Next() {
		var t storage.WorkerTotal
		if err := rows.Scan(&t.ProductionID, &t.WorkerID, &t.WorkerName, &t.CPF, &t.TotalUnits, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

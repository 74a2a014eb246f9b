package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"gestao-diaristas/internal/storage"
)

func (s *Storage) CreateServico(ctx context.Context, sv storage.Servico) (int64, error) {
	const op = "storage.sqldb.CreateServico"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO servicos (worker_id, cost_center_id, work_date, description, quantity, unit_value, value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sv.WorkerID, sv.CostCenterID, sv.Date, sv.Description,
		sv.Quantity.StringFixed(2), sv.UnitValue.StringFixed(2), sv.Value.StringFixed(2))
	if err != nil {
		return 0, fmt.Errorf("%s: erro ao salvar serviço: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) ListServicos(ctx context.Context, f storage.PeriodFilter) ([]storage.Servico, error) {
	const op = "storage.sqldb.ListServicos"

	where, args := periodWhere("s", f)
	query := `
		SELECT s.id, s.worker_id, w.name, s.cost_center_id, c.name, s.work_date, s.description,
		       s.quantity, s.unit_value, s.value
		FROM servicos s
		JOIN workers w ON w.id = s.worker_id
		LEFT JOIN cost_centers c ON c.id = s.cost_center_id` + where + `
		ORDER BY s.work_date ASC, w.name ASC, s.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao listar serviços: %w", op, err)
	}
	defer rows.Close()

	servicos := []storage.Servico{}
	for rows.Next() {
		var (
			sv     storage.Servico
			ccID   sql.NullInt64
			ccName sql.NullString
		)
		err := rows.Scan(&sv.ID, &sv.WorkerID, &sv.WorkerName, &ccID, &ccName, &sv.Date, &sv.Description,
			&sv.Quantity, &sv.UnitValue, &sv.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if ccID.Valid {
			sv.CostCenterID = &ccID.Int64
			sv.CostCenterName = &ccName.String
		}
		servicos = append(servicos, sv)
	}

	return servicos, rows.Err()
}

func (s *Storage) DeleteServico(ctx context.Context, id int64) error {
	const op = "storage.sqldb.DeleteServico"

	res, err := s.db.ExecContext(ctx, `DELETE FROM servicos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectAffected(op, res, id)
}

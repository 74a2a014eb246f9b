package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gestao-diaristas/internal/storage"
)

func (s *Storage) ListCostCenters(ctx context.Context, onlyActive bool) ([]storage.CostCenter, error) {
	const op = "storage.sqldb.ListCostCenters"

	query := `SELECT id, name, description, is_active FROM cost_centers`
	var args []any
	if onlyActive {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao listar centros de custo: %w", op, err)
	}
	defer rows.Close()

	centers := []storage.CostCenter{}
	for rows.Next() {
		var c storage.CostCenter
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		centers = append(centers, c)
	}

	return centers, rows.Err()
}

func (s *Storage) GetCostCenter(ctx context.Context, id int64) (*storage.CostCenter, error) {
	const op = "storage.sqldb.GetCostCenter"

	var c storage.CostCenter
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, is_active FROM cost_centers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: centro de custo id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *Storage) CreateCostCenter(ctx context.Context, c storage.CostCenter) (int64, error) {
	const op = "storage.sqldb.CreateCostCenter"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cost_centers (name, description, is_active) VALUES (?, ?, ?)`,
		c.Name, c.Description, true)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: centro de custo %q: %w", op, c.Name, storage.ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) UpdateCostCenter(ctx context.Context, c storage.CostCenter) error {
	const op = "storage.sqldb.UpdateCostCenter"

	res, err := s.db.ExecContext(ctx,
		`UPDATE cost_centers SET name = ?, description = ?, is_active = ? WHERE id = ?`,
		c.Name, c.Description, c.IsActive, c.ID)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: centro de custo %q: %w", op, c.Name, storage.ErrDuplicate)
		}
		return fmt.Errorf("%s: id=%d: %w", op, c.ID, err)
	}

	return expectAffected(op, res, c.ID)
}

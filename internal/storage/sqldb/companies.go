package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gestao-diaristas/internal/storage"
)

func (s *Storage) CreateCompany(ctx context.Context, c storage.Company) error {
	const op = "storage.sqldb.CreateCompany"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, cnpj, database_name, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.CNPJ, c.DatabaseName, c.IsActive, nowStamp())
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: empresa %q: %w", op, c.Name, storage.ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListCompanies(ctx context.Context) ([]storage.Company, error) {
	const op = "storage.sqldb.ListCompanies"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, cnpj, database_name, is_active, created_at FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	companies := []storage.Company{}
	for rows.Next() {
		var c storage.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CNPJ, &c.DatabaseName, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

func (s *Storage) GetCompany(ctx context.Context, id string) (*storage.Company, error) {
	const op = "storage.sqldb.GetCompany"

	var c storage.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, cnpj, database_name, is_active, created_at FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.CNPJ, &c.DatabaseName, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: empresa %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

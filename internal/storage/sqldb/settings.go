package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const settingUnitPrice = "preco_saco"

func getUnitPrice(ctx context.Context, q queryer) (decimal.Decimal, error) {
	var raw string

	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, settingUnitPrice).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return decimal.NewFromString(raw)
}

// GetUnitPrice returns the configured price per unit, zero when never set.
func (s *Storage) GetUnitPrice(ctx context.Context) (decimal.Decimal, error) {
	const op = "storage.sqldb.GetUnitPrice"

	price, err := getUnitPrice(ctx, s.db)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return price, nil
}

func (s *Storage) SetUnitPrice(ctx context.Context, price decimal.Decimal) error {
	const op = "storage.sqldb.SetUnitPrice"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE settings SET value = ?, updated_at = ? WHERE name = ?`,
		price.StringFixed(2), nowStamp(), settingUnitPrice)
	if err != nil {
		return fmt.Errorf("%s: update: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, `INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)`,
			settingUnitPrice, price.StringFixed(2), nowStamp())
		if err != nil {
			return fmt.Errorf("%s: insert: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

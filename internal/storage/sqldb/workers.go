package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gestao-diaristas/internal/storage"
)

const workerColumns = `id, name, cpf, phone, is_active, admission_date, deactivated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (storage.Worker, error) {
	var (
		w           storage.Worker
		deactivated sql.NullString
	)

	err := row.Scan(&w.ID, &w.Name, &w.CPF, &w.Phone, &w.IsActive, &w.AdmissionDate, &deactivated)
	if err != nil {
		return w, err
	}

	if deactivated.Valid {
		w.DeactivatedAt = &deactivated.String
	}

	return w, nil
}

func (s *Storage) ListWorkers(ctx context.Context, f storage.WorkerFilter) ([]storage.Worker, error) {
	const op = "storage.sqldb.ListWorkers"

	query := `SELECT ` + workerColumns + ` FROM workers WHERE 1 = 1`
	var args []any

	if f.OnlyActive {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	if f.Search != "" {
		query += ` AND (name LIKE ? OR cpf LIKE ?)`
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: erro ao listar diaristas: %w", op, err)
	}
	defer rows.Close()

	workers := []storage.Worker{}
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		workers = append(workers, w)
	}

	return workers, rows.Err()
}

func (s *Storage) GetWorker(ctx context.Context, id int64) (*storage.Worker, error) {
	const op = "storage.sqldb.GetWorker"

	row := s.db.QueryRowContext(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = ?`, id)

	w, err := scanWorker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: diarista id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &w, nil
}

func (s *Storage) CreateWorker(ctx context.Context, w storage.Worker) (int64, error) {
	const op = "storage.sqldb.CreateWorker"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workers (name, cpf, phone, is_active, admission_date) VALUES (?, ?, ?, ?, ?)`,
		w.Name, w.CPF, w.Phone, true, w.AdmissionDate)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: CPF %s já cadastrado: %w", op, w.CPF, storage.ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: erro ao salvar diarista: %w", op, err)
	}

	return res.LastInsertId()
}

func (s *Storage) UpdateWorker(ctx context.Context, w storage.Worker) error {
	const op = "storage.sqldb.UpdateWorker"

	res, err := s.db.ExecContext(ctx,
		`UPDATE workers SET name = ?, cpf = ?, phone = ?, admission_date = ? WHERE id = ?`,
		w.Name, w.CPF, w.Phone, w.AdmissionDate, w.ID)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: CPF %s já cadastrado: %w", op, w.CPF, storage.ErrDuplicate)
		}
		return fmt.Errorf("%s: erro ao atualizar diarista id=%d: %w", op, w.ID, err)
	}

	return expectAffected(op, res, w.ID)
}

// SetWorkerActive toggles the soft-delete flag. date is recorded as the
// deactivation date and cleared on reactivation.
func (s *Storage) SetWorkerActive(ctx context.Context, id int64, active bool, date string) error {
	const op = "storage.sqldb.SetWorkerActive"

	var deactivated any
	if !active {
		deactivated = date
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE workers SET is_active = ?, deactivated_at = ? WHERE id = ?`, active, deactivated, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectAffected(op, res, id)
}

// DeleteWorker removes a worker that has no history at all.
func (s *Storage) DeleteWorker(ctx context.Context, id int64) error {
	const op = "storage.sqldb.DeleteWorker"

	var refs int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM diarias WHERE worker_id = ?) +
			(SELECT COUNT(*) FROM servicos WHERE worker_id = ?) +
			(SELECT COUNT(*) FROM production_participants WHERE worker_id = ?)
	`, id, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("%s: erro ao verificar histórico do diarista id=%d: %w", op, id, err)
	}

	if refs > 0 {
		return fmt.Errorf("%s: diarista id=%d: %w", op, id, storage.ErrInUse)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectAffected(op, res, id)
}

func expectAffected(op string, res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: id=%d: %w", op, id, storage.ErrNotFound)
	}
	return nil
}

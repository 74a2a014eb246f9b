package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gestao-diaristas/internal/storage"
)

const userColumns = `id, username, name, password_hash, role, permissions, is_active`

func scanUser(row rowScanner) (storage.User, error) {
	var (
		u     storage.User
		perms string
	)

	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Role, &perms, &u.IsActive); err != nil {
		return u, err
	}
	u.Permissions = splitPermissions(perms)

	return u, nil
}

func splitPermissions(raw string) []string {
	perms := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

func (s *Storage) CreateUser(ctx context.Context, u storage.User) (int64, error) {
	const op = "storage.sqldb.CreateUser"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, name, password_hash, role, permissions, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Name, u.PasswordHash, u.Role, strings.Join(u.Permissions, ","), u.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: usuário %q: %w", op, u.Username, storage.ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.LastInsertId()
}

// UpdateUser rewrites the profile of a user. An empty PasswordHash keeps the
// current password.
func (s *Storage) UpdateUser(ctx context.Context, u storage.User) error {
	const op = "storage.sqldb.UpdateUser"

	query := `UPDATE users SET name = ?, role = ?, permissions = ?, is_active = ?`
	args := []any{u.Name, u.Role, strings.Join(u.Permissions, ","), u.IsActive}
	if u.PasswordHash != "" {
		query += `, password_hash = ?`
		args = append(args, u.PasswordHash)
	}
	query += ` WHERE id = ?`
	args = append(args, u.ID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, u.ID, err)
	}

	return expectAffected(op, res, u.ID)
}

func (s *Storage) ListUsers(ctx context.Context) ([]storage.User, error) {
	const op = "storage.sqldb.ListUsers"

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := []storage.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	const op = "storage.sqldb.GetUserByUsername"

	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: usuário %q: %w", op, username, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*storage.User, error) {
	const op = "storage.sqldb.GetUser"

	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: usuário id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

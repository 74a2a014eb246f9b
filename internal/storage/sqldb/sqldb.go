package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"gestao-diaristas/internal/config"
)

type Storage struct {
	db      *sql.DB
	dialect dialect
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLite opens an embedded database file. ":memory:" gives a private
// in-memory database, used by tests.
func NewSQLite(path string) (*Storage, error) {
	const op = "storage.sqldb.NewSQLite"

	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// um único processo, uma única conexão
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{db: db, dialect: sqliteDialect}, nil
}

func NewMySQL(cfg config.Database, database string) (*Storage, error) {
	const op = "storage.sqldb.NewMySQL"

	db, err := sql.Open("mysql", mysqlDSN(cfg, database))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping %s: %w", op, database, err)
	}

	return &Storage{db: db, dialect: mysqlDialect}, nil
}

// CreateMySQLDatabase creates the schema of a tenant on the server.
func CreateMySQLDatabase(ctx context.Context, cfg config.Database, database string) error {
	const op = "storage.sqldb.CreateMySQLDatabase"

	if !validDatabaseName(database) {
		return fmt.Errorf("%s: nome de banco inválido %q", op, database)
	}

	db, err := sql.Open("mysql", mysqlDSN(cfg, ""))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS `"+database+"` CHARACTER SET utf8mb4")
	if err != nil {
		return fmt.Errorf("%s: create %s: %w", op, database, err)
	}

	return nil
}

func mysqlDSN(cfg config.Database, database string) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = database
	// UPDATE sem mudança de valores ainda conta como linha encontrada
	mc.ClientFoundRows = true

	return mc.FormatDSN()
}

func validDatabaseName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Driver() string {
	return s.dialect.name
}

func (s *Storage) migrate(ctx context.Context, stmts []string) error {
	const op = "storage.sqldb.migrate"

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, s.dialect.rewrite(stmt)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// MigrateTenant creates the tables of a company database.
func (s *Storage) MigrateTenant(ctx context.Context) error {
	return s.migrate(ctx, tenantSchema)
}

// MigrateMaster creates the companies and users tables.
func (s *Storage) MigrateMaster(ctx context.Context) error {
	return s.migrate(ctx, masterSchema)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gestao-diaristas/internal/config"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/storage/sqldb"
)

var (
	ErrCompanyInactive = errors.New("empresa inativa")
	ErrUserInactive    = errors.New("usuário inativo")
)

// Registry owns the master database and one open storage per company.
// Company storages are opened on first use and kept until Close.
type Registry struct {
	cfg    config.Config
	log    *slog.Logger
	master *sqldb.Storage

	mu      sync.Mutex
	tenants map[string]*sqldb.Storage
}

func NewRegistry(ctx context.Context, cfg config.Config, log *slog.Logger) (*Registry, error) {
	const op = "tenant.NewRegistry"

	if cfg.Driver == config.DriverSQLite {
		if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	master, err := openDatabase(ctx, cfg, cfg.Master)
	if err != nil {
		return nil, fmt.Errorf("%s: master: %w", op, err)
	}

	if err := master.MigrateMaster(ctx); err != nil {
		master.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Registry{
		cfg:     cfg,
		log:     log,
		master:  master,
		tenants: map[string]*sqldb.Storage{},
	}, nil
}

func openDatabase(ctx context.Context, cfg config.Config, name string) (*sqldb.Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqldb.NewSQLite(filepath.Join(cfg.StoragePath, name+".db"))
	case config.DriverMySQL:
		if err := sqldb.CreateMySQLDatabase(ctx, cfg.Database, name); err != nil {
			return nil, err
		}
		return sqldb.NewMySQL(cfg.Database, name)
	default:
		return nil, fmt.Errorf("driver de banco desconhecido %q", cfg.Driver)
	}
}

func (r *Registry) Master() *sqldb.Storage {
	return r.master
}

// CreateCompany registers a company and creates its database.
func (r *Registry) CreateCompany(ctx context.Context, name, cnpj string) (*storage.Company, error) {
	const op = "tenant.Registry.CreateCompany"

	id := uuid.New()
	company := storage.Company{
		ID:           id.String(),
		Name:         strings.TrimSpace(name),
		CNPJ:         cnpj,
		DatabaseName: "empresa_" + strings.ReplaceAll(id.String(), "-", ""),
		IsActive:     true,
	}

	st, err := openDatabase(ctx, r.cfg, company.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := st.MigrateTenant(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.master.CreateCompany(ctx, company); err != nil {
		st.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	r.tenants[company.ID] = st
	r.mu.Unlock()

	r.log.Info("empresa cadastrada", slog.String("company_id", company.ID), slog.String("name", company.Name))

	return r.master.GetCompany(ctx, company.ID)
}

// Tenant returns the storage of an active company.
func (r *Registry) Tenant(ctx context.Context, companyID string) (*storage.Company, *sqldb.Storage, error) {
	const op = "tenant.Registry.Tenant"

	company, err := r.master.GetCompany(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !company.IsActive {
		return nil, nil, fmt.Errorf("%s: %s: %w", op, company.Name, ErrCompanyInactive)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.tenants[companyID]; ok {
		return company, st, nil
	}

	st, err := openDatabase(ctx, r.cfg, company.DatabaseName)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	// bancos antigos podem não ter tabelas novas
	if err := st.MigrateTenant(ctx); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	r.tenants[companyID] = st

	return company, st, nil
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, st := range r.tenants {
		if err := st.Close(); err != nil {
			errs = append(errs, fmt.Errorf("empresa %s: %w", id, err))
		}
		delete(r.tenants, id)
	}

	if err := r.master.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestao-diaristas/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.MigrateTenant(context.Background()))
	require.NoError(t, st.MigrateMaster(context.Background()))

	return st
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func addWorker(t *testing.T, st *Storage, name, cpf string) int64 {
	t.Helper()
	id, err := st.CreateWorker(context.Background(), storage.Worker{Name: name, CPF: cpf, AdmissionDate: "2024-01-02"})
	require.NoError(t, err)
	return id
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := newTestStorage(t)
	assert.NoError(t, st.MigrateTenant(context.Background()))
	assert.NoError(t, st.MigrateMaster(context.Background()))
}

func TestWorkers_CRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	id := addWorker(t, st, "Ana", "11111111111")
	addWorker(t, st, "Bruno", "22222222222")

	_, err := st.CreateWorker(ctx, storage.Worker{Name: "Outra", CPF: "11111111111", AdmissionDate: "2024-01-02"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	w, err := st.GetWorker(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", w.Name)
	assert.True(t, w.IsActive)
	assert.Nil(t, w.DeactivatedAt)

	w.Phone = "119999"
	require.NoError(t, st.UpdateWorker(ctx, *w))

	require.NoError(t, st.SetWorkerActive(ctx, id, false, "2024-05-01"))
	w, err = st.GetWorker(ctx, id)
	require.NoError(t, err)
	assert.False(t, w.IsActive)
	require.NotNil(t, w.DeactivatedAt)
	assert.Equal(t, "2024-05-01", *w.DeactivatedAt)
	assert.Equal(t, "119999", w.Phone)

	active, err := st.ListWorkers(ctx, storage.WorkerFilter{OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Bruno", active[0].Name)

	found, err := st.ListWorkers(ctx, storage.WorkerFilter{Search: "2222"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = st.GetWorker(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, st.UpdateWorker(ctx, storage.Worker{ID: 999, Name: "x", CPF: "33333333333"}), storage.ErrNotFound)
}

func TestDeleteWorker(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	free := addWorker(t, st, "Livre", "11111111111")
	busy := addWorker(t, st, "Ocupado", "22222222222")

	_, err := st.CreateDiaria(ctx, storage.Diaria{WorkerID: busy, Date: "2024-03-01", Value: dec("80")})
	require.NoError(t, err)

	assert.ErrorIs(t, st.DeleteWorker(ctx, busy), storage.ErrInUse)
	assert.NoError(t, st.DeleteWorker(ctx, free))
	assert.ErrorIs(t, st.DeleteWorker(ctx, free), storage.ErrNotFound)
}

func TestCostCenters(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	id, err := st.CreateCostCenter(ctx, storage.CostCenter{Name: "Colheita"})
	require.NoError(t, err)
	_, err = st.CreateCostCenter(ctx, storage.CostCenter{Name: "Colheita"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	require.NoError(t, st.UpdateCostCenter(ctx, storage.CostCenter{ID: id, Name: "Colheita", IsActive: false}))

	all, err := st.ListCostCenters(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := st.ListCostCenters(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDiariasServicosAndSummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	ana := addWorker(t, st, "Ana", "11111111111")
	bruno := addWorker(t, st, "Bruno", "22222222222")
	cc, err := st.CreateCostCenter(ctx, storage.CostCenter{Name: "Colheita"})
	require.NoError(t, err)

	d1, err := st.CreateDiaria(ctx, storage.Diaria{WorkerID: ana, CostCenterID: &cc, Date: "2024-03-04", Value: dec("80.00")})
	require.NoError(t, err)
	_, err = st.CreateDiaria(ctx, storage.Diaria{WorkerID: bruno, Date: "2024-03-05", Value: dec("75.50")})
	require.NoError(t, err)
	_, err = st.CreateDiaria(ctx, storage.Diaria{WorkerID: ana, Date: "2024-04-01", Value: dec("80.00")})
	require.NoError(t, err)

	_, err = st.CreateServico(ctx, storage.Servico{
		WorkerID: ana, CostCenterID: &cc, Date: "2024-03-10", Description: "Cerca",
		Quantity: dec("2"), UnitValue: dec("15.25"), Value: dec("30.50"),
	})
	require.NoError(t, err)

	require.NoError(t, st.SetDiariaPaid(ctx, d1, true))

	march := storage.PeriodFilter{From: "2024-03-01", To: "2024-03-31"}

	diarias, err := st.ListDiarias(ctx, march)
	require.NoError(t, err)
	require.Len(t, diarias, 2)
	assert.Equal(t, "Ana", diarias[0].WorkerName)
	assert.True(t, diarias[0].Paid)
	require.NotNil(t, diarias[0].CostCenterName)
	assert.Equal(t, "Colheita", *diarias[0].CostCenterName)
	assert.Nil(t, diarias[1].CostCenterID)

	onlyAna, err := st.ListDiarias(ctx, storage.PeriodFilter{WorkerID: ana})
	require.NoError(t, err)
	assert.Len(t, onlyAna, 2)

	servicos, err := st.ListServicos(ctx, march)
	require.NoError(t, err)
	require.Len(t, servicos, 1)
	assert.Equal(t, "30.50", servicos[0].Value.StringFixed(2))

	sum, err := st.PeriodSummary(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "186.00", sum.Total.StringFixed(2))
	require.Len(t, sum.ByWorker, 2)
	assert.Equal(t, "Ana", sum.ByWorker[0].Name)
	assert.Equal(t, "110.50", sum.ByWorker[0].Total.StringFixed(2))
	require.Len(t, sum.ByCostCenter, 2)

	byName := map[string]storage.PeriodSummaryLine{}
	for _, l := range sum.ByCostCenter {
		byName[l.Name] = l
	}
	assert.Equal(t, "110.50", byName["Colheita"].Total.StringFixed(2))
	assert.Equal(t, "75.50", byName[noCostCenter].Total.StringFixed(2))

	assert.ErrorIs(t, st.DeleteDiaria(ctx, 999), storage.ErrNotFound)
}

func TestUnitPrice(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	price, err := st.GetUnitPrice(ctx)
	require.NoError(t, err)
	assert.True(t, price.IsZero())

	require.NoError(t, st.SetUnitPrice(ctx, dec("2.50")))
	require.NoError(t, st.SetUnitPrice(ctx, dec("2.75")))

	price, err = st.GetUnitPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.75", price.StringFixed(2))
}

func TestProductions_ListByStatus(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	id, err := st.CreateProduction(ctx, storage.Production{Name: "Lote 1", StartDate: "2024-03-01"})
	require.NoError(t, err)
	_, err = st.CreateProduction(ctx, storage.Production{Name: "Lote 2", StartDate: "2024-03-05"})
	require.NoError(t, err)

	require.NoError(t, st.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		return tx.CloseProduction(ctx, id, "2024-03-04", 0, decimal.Zero)
	}))

	open, err := st.ListProductions(ctx, storage.ProductionOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Lote 2", open[0].Name)

	all, err := st.ListProductions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	p, err := st.GetProduction(ctx, id)
	require.NoError(t, err)
	assert.True(t, p.IsClosed())
	require.NotNil(t, p.EndDate)
	assert.Equal(t, "2024-03-04", *p.EndDate)
}

func TestUsersAndCompanies(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	require.NoError(t, st.CreateCompany(ctx, storage.Company{
		ID: "c1", Name: "Fazenda", DatabaseName: "empresa_c1", IsActive: true,
	}))
	c, err := st.GetCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Fazenda", c.Name)

	id, err := st.CreateUser(ctx, storage.User{
		Username: "ana", Name: "Ana", PasswordHash: "h1", Role: storage.RoleOperator,
		Permissions: []string{storage.PermDiarias, storage.PermProducao}, IsActive: true,
	})
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, storage.User{Username: "ana", PasswordHash: "h", Role: storage.RoleAdmin})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	u, err := st.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{storage.PermDiarias, storage.PermProducao}, u.Permissions)

	u.PasswordHash = ""
	u.Permissions = nil
	require.NoError(t, st.UpdateUser(ctx, *u))

	u, err = st.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "h1", u.PasswordHash)
	assert.Empty(t, u.Permissions)

	_, err = st.GetUserByUsername(ctx, "ninguem")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func countRows(t *testing.T, st *Storage, table string) int {
	t.Helper()
	var n int
	require.NoError(t, st.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// writeDay grava dia, divisão e participante e depois credita o diarista.
func writeDay(ctx context.Context, tx storage.ProductionTx, productionID, workerID int64) error {
	dayID, err := tx.InsertProductionDay(ctx, storage.ProductionDay{
		ProductionID: productionID, Date: "2024-01-02", TotalQuantity: 10,
		UnitPrice: dec("5.00"), TotalValue: dec("50.00"),
	})
	if err != nil {
		return err
	}
	divID, err := tx.InsertDivision(ctx, storage.Division{DayID: dayID, Position: 1, Quantity: 10, Value: dec("50.00")})
	if err != nil {
		return err
	}
	if _, err := tx.InsertParticipant(ctx, storage.Participant{DivisionID: divID, WorkerID: workerID, Quantity: 10, Value: dec("50.00")}); err != nil {
		return err
	}
	return tx.AddWorkerTotal(ctx, productionID, workerID, 10, dec("50.00"))
}

func TestInProductionTx_RollsBackAfterWrites(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	workerID := addWorker(t, st, "Ana", "11111111111")
	prodID, err := st.CreateProduction(ctx, storage.Production{Name: "Lote", StartDate: "2024-01-01"})
	require.NoError(t, err)

	// a última escrita da transação falha depois de dia, divisão e participante gravados
	_, err = st.db.ExecContext(ctx, "DROP TABLE worker_production_totals")
	require.NoError(t, err)

	err = st.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		return writeDay(ctx, tx, prodID, workerID)
	})
	require.Error(t, err)

	assert.Zero(t, countRows(t, st, "production_days"))
	assert.Zero(t, countRows(t, st, "production_divisions"))
	assert.Zero(t, countRows(t, st, "production_participants"))
}

func TestInProductionTx_CallbackErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)

	workerID := addWorker(t, st, "Ana", "11111111111")
	prodID, err := st.CreateProduction(ctx, storage.Production{Name: "Lote", StartDate: "2024-01-01"})
	require.NoError(t, err)

	boom := errors.New("falha")
	err = st.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		if err := writeDay(ctx, tx, prodID, workerID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Zero(t, countRows(t, st, "production_days"))
	assert.Zero(t, countRows(t, st, "production_divisions"))
	assert.Zero(t, countRows(t, st, "production_participants"))
	assert.Zero(t, countRows(t, st, "worker_production_totals"))

	require.NoError(t, st.InProductionTx(ctx, func(tx storage.ProductionTx) error {
		return writeDay(ctx, tx, prodID, workerID)
	}))
	assert.Equal(t, 1, countRows(t, st, "production_days"))
	assert.Equal(t, 1, countRows(t, st, "worker_production_totals"))
}

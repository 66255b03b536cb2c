package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-ledger/internal/application/document"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
	"github.com/jhoicas/Backoffice-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Backoffice-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func day(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "esperado %s, obtuvo %s", want, got)
}

// recordingDispatcher guarda los materiales enviados a propagación.
type recordingDispatcher struct{ ids []string }

func (d *recordingDispatcher) Dispatch(ids ...string) { d.ids = append(d.ids, ids...) }

type fixture struct {
	store      *memory.Store
	repos      repository.TxRepos
	dispatcher *recordingDispatcher
	orch       *document.Orchestrator
}

// newFixture: unidades g (base), kg, lt; bodegas w1 y w2;
// harina (compra y consumo en kg), azucar (compra en kg, consumo en g).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	units := []*entity.Unit{
		{ID: "g", Name: "Gramo", Symbol: "g", ConversionFactor: dec("1")},
		{ID: "kg", Name: "Kilogramo", Symbol: "kg", BaseUnitID: strPtr("g"), ConversionFactor: dec("1000")},
		{ID: "lt", Name: "Litro", Symbol: "l", ConversionFactor: dec("1")},
	}
	for _, u := range units {
		require.NoError(t, repos.Units.Create(ctx, u))
	}
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", BranchID: "b1", Name: "Cocina"}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", BranchID: "b1", Name: "Bodega"}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{ID: "harina", Name: "Harina", PurchaseUnitID: "kg", ConsumptionUnitID: "kg"}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{ID: "azucar", Name: "Azúcar", PurchaseUnitID: "kg", ConsumptionUnitID: "g"}))

	d := &recordingDispatcher{}
	return &fixture{
		store:      store,
		repos:      repos,
		dispatcher: d,
		orch:       document.NewOrchestrator(store, d, 3, logger.Nop()),
	}
}

func (f *fixture) apply(t *testing.T, in entity.DocumentMutation) *entity.AggregateUpdateResult {
	t.Helper()
	res, err := f.orch.ApplyDocumentMutation(context.Background(), in)
	require.NoError(t, err)
	return res
}

func (f *fixture) material(t *testing.T, id string) *entity.Material {
	t.Helper()
	m, err := f.repos.Materials.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func (f *fixture) chain(t *testing.T, materialID string, warehouseID *string) []*entity.StockMovement {
	t.Helper()
	ms, err := f.repos.Movements.ListFrom(context.Background(), entity.MovementKey{MaterialID: materialID, WarehouseID: warehouseID}, time.Time{})
	require.NoError(t, err)
	return ms
}

func (f *fixture) account(t *testing.T, counterpartyID string) *entity.CurrentAccount {
	t.Helper()
	acc, err := f.repos.Accounts.GetByCounterparty(context.Background(), counterpartyID)
	require.NoError(t, err)
	return acc
}

func afters(ms []*entity.StockMovement) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.StockAfter.String()
	}
	return out
}

func purchase(id string, d time.Time, supplier string, lines ...entity.DocumentLine) entity.DocumentMutation {
	return entity.DocumentMutation{
		DocumentID:       id,
		Kind:             entity.MutationCreate,
		Type:             entity.DocumentTypePurchase,
		Date:             d,
		CounterpartyID:   supplier,
		CounterpartyName: "Proveedor " + supplier,
		Lines:            lines,
	}
}

func line(material, warehouse, qty, price string) entity.DocumentLine {
	l := entity.DocumentLine{MaterialID: material, Quantity: dec(qty), UnitPrice: dec(price)}
	if warehouse != "" {
		l.WarehouseID = strPtr(warehouse)
	}
	return l
}

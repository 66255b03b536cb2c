package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
	"github.com/jhoicas/Backoffice-ledger/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func day(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repos()
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "g", ConversionFactor: dec("1")}))
	require.NoError(t, repos.Units.Create(ctx, &entity.Unit{ID: "kg", BaseUnitID: strPtr("g"), ConversionFactor: dec("1000")}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Cocina"}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", Name: "Bodega"}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{ID: "m1", Name: "Harina", PurchaseUnitID: "kg", ConsumptionUnitID: "g"}))
	return s
}

func mv(d int, qty string) *entity.StockMovement {
	typ := entity.MovementTypeIN
	if dec(qty).IsNegative() {
		typ = entity.MovementTypeOUT
	}
	return &entity.StockMovement{MaterialID: "m1", WarehouseID: strPtr("w1"), Date: day(d), Type: typ, Quantity: dec(qty)}
}

func inTx(t *testing.T, s *memory.Store, fn func(ctx context.Context, l *inventory.MovementLedger, repos repository.TxRepos) error) error {
	t.Helper()
	return s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return fn(ctx, inventory.NewMovementLedger(repos), repos)
	})
}

func chainOf(t *testing.T, s *memory.Store) []*entity.StockMovement {
	t.Helper()
	ms, err := s.Repos().Movements.ListFrom(context.Background(), entity.MovementKey{MaterialID: "m1", WarehouseID: strPtr("w1")}, time.Time{})
	require.NoError(t, err)
	return ms
}

func afters(ms []*entity.StockMovement) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.StockAfter.String()
	}
	return out
}

func TestMovementLedger_InsertRetroactivo(t *testing.T) {
	s := newStore(t)
	err := inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		for _, m := range []*entity.StockMovement{mv(1, "10"), mv(10, "-3"), mv(5, "5")} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	chain := chainOf(t, s)
	assert.Equal(t, []string{"10", "15", "12"}, afters(chain))
	assert.True(t, domaininv.ChainConsistent(chain, decimal.Zero))
	assert.True(t, chain[0].StockBefore.IsZero())
}

func TestMovementLedger_DeleteRestauraCadena(t *testing.T) {
	s := newStore(t)
	backdated := mv(5, "5")
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		for _, m := range []*entity.StockMovement{mv(1, "10"), mv(10, "-3"), backdated} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		deleted, err := l.Delete(ctx, backdated.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, backdated.ID, deleted.ID)
		return nil
	}))

	assert.Equal(t, []string{"10", "7"}, afters(chainOf(t, s)))
}

func TestMovementLedger_MismaFechaVaDespues(t *testing.T) {
	s := newStore(t)
	first, second := mv(3, "4"), mv(3, "-1")
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		if err := l.Insert(ctx, mv(1, "10")); err != nil {
			return err
		}
		if err := l.Insert(ctx, first); err != nil {
			return err
		}
		return l.Insert(ctx, second)
	}))

	chain := chainOf(t, s)
	require.Len(t, chain, 3)
	assert.Equal(t, first.ID, chain[1].ID)
	assert.Equal(t, second.ID, chain[2].ID)
	assert.Equal(t, []string{"10", "14", "13"}, afters(chain))
}

func TestMovementLedger_ClavesIndependientes(t *testing.T) {
	s := newStore(t)
	other := mv(2, "7")
	other.WarehouseID = strPtr("w2")
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		if err := l.Insert(ctx, mv(5, "1")); err != nil {
			return err
		}
		return l.Insert(ctx, other)
	}))

	assert.Equal(t, []string{"1"}, afters(chainOf(t, s)))
	assert.True(t, other.StockBefore.IsZero())
}

func TestMovementLedger_Errores(t *testing.T) {
	s := newStore(t)
	err := inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		m := mv(1, "1")
		m.MaterialID = "nope"
		return l.Insert(ctx, m)
	})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	err = inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		m := mv(1, "1")
		m.WarehouseID = strPtr("w9")
		return l.Insert(ctx, m)
	})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	err = inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		return l.Insert(ctx, mv(1, "0"))
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		_, err := l.Delete(ctx, "nope")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementLedger_RebuildCorrigeDeriva(t *testing.T) {
	s := newStore(t)
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		if err := l.Insert(ctx, mv(1, "10")); err != nil {
			return err
		}
		return l.Insert(ctx, mv(2, "-4"))
	}))
	chain := chainOf(t, s)
	require.NoError(t, s.Repos().Movements.UpdateSnapshot(context.Background(), chain[1].ID, dec("99"), dec("1")))

	var rewritten int
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		var err error
		rewritten, err = l.Rebuild(ctx, entity.MovementKey{MaterialID: "m1", WarehouseID: strPtr("w1")})
		return err
	}))

	assert.Equal(t, 1, rewritten)
	assert.Equal(t, []string{"10", "6"}, afters(chainOf(t, s)))
}

package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

func TestStockUseCase_Consultas(t *testing.T) {
	s := newStore(t)
	inW2 := mv(2, "5")
	inW2.WarehouseID = strPtr("w2")
	noWh := mv(3, "2")
	noWh.WarehouseID = nil
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		for _, m := range []*entity.StockMovement{mv(1, "10"), mv(4, "-4"), inW2, noWh} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}))

	repos := s.Repos()
	uc := inventory.NewStockUseCase(s, repos.Movements, repos.Materials)
	ctx := context.Background()

	total, err := uc.CurrentStock(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("13")), "obtuvo %s", total)

	w1, err := uc.WarehouseStock(ctx, "m1", strPtr("w1"))
	require.NoError(t, err)
	assert.True(t, w1.Equal(dec("6")))

	none, err := uc.WarehouseStock(ctx, "m1", nil)
	require.NoError(t, err)
	assert.True(t, none.Equal(dec("2")))

	levels, err := uc.Levels(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, levels, 3)

	chain, err := uc.Movements(ctx, "m1", strPtr("w1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "6"}, afters(chain))

	_, err = uc.CurrentStock(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_RebuildMaterial(t *testing.T) {
	s := newStore(t)
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		if err := l.Insert(ctx, mv(1, "10")); err != nil {
			return err
		}
		return l.Insert(ctx, mv(2, "-1"))
	}))
	ctx := context.Background()
	repos := s.Repos()
	chain := chainOf(t, s)
	require.NoError(t, repos.Movements.UpdateSnapshot(ctx, chain[0].ID, dec("5"), dec("15")))

	report, err := inventory.NewStockUseCase(s, repos.Movements, repos.Materials).RebuildMaterial(ctx, "m1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Keys)
	assert.Equal(t, 1, report.Rewritten)
	assert.True(t, report.Aggregate.CurrentStock.Equal(dec("9")))
	assert.Equal(t, []string{"10", "9"}, afters(chainOf(t, s)))
}

func TestStockUseCase_RebuildMaterialRecalculaCosto(t *testing.T) {
	s := newStore(t)
	require.NoError(t, inTx(t, s, func(ctx context.Context, l *inventory.MovementLedger, _ repository.TxRepos) error {
		if err := l.Insert(ctx, purchaseIn(5, "1000", "0.20")); err != nil {
			return err
		}
		return l.Insert(ctx, purchaseIn(1, "1000", "0.10"))
	}))
	ctx := context.Background()
	repos := s.Repos()
	// caché corrupto: costo de la compra retroactiva
	m, err := repos.Materials.GetByID(ctx, "m1")
	require.NoError(t, err)
	m.AverageCost, m.LastPurchasePrice = dec("0.10"), dec("100")
	require.NoError(t, repos.Materials.UpdateAggregates(ctx, m))

	report, err := inventory.NewStockUseCase(s, repos.Movements, repos.Materials).RebuildMaterial(ctx, "m1")
	require.NoError(t, err)

	assert.True(t, report.Aggregate.AverageCost.Equal(dec("0.20")), "obtuvo %s", report.Aggregate.AverageCost)
	assert.True(t, report.Aggregate.LastPurchasePrice.Equal(dec("200")), "obtuvo %s", report.Aggregate.LastPurchasePrice)
	assert.True(t, report.Aggregate.CurrentStock.Equal(dec("2000")))
}

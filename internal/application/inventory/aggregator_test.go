package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

func purchaseIn(d int, qty, unitCost string) *entity.StockMovement {
	m := mv(d, qty)
	m.SourceType = entity.DocumentTypePurchase
	m.UnitCost = dec(unitCost)
	return m
}

func TestAggregator_UltimaCompraNoPromedio(t *testing.T) {
	s := newStore(t)
	first := purchaseIn(1, "1000", "0.10")
	second := purchaseIn(2, "3000", "0.30")

	var agg entity.MaterialAggregate
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		l := inventory.NewMovementLedger(repos)
		a := inventory.NewAggregator(repos)
		for _, m := range []*entity.StockMovement{first, second} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
			var err error
			agg, err = a.Refresh(ctx, "m1")
			if err != nil {
				return err
			}
		}
		return nil
	}))

	// un promedio ponderado daría 0.25
	assert.True(t, agg.AverageCost.Equal(dec("0.30")), "obtuvo %s", agg.AverageCost)
	assert.True(t, agg.LastPurchasePrice.Equal(dec("300")))
	assert.True(t, agg.CurrentStock.Equal(dec("4000")))
}

func TestAggregator_SinCostoSoloStock(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		if err := inventory.NewMovementLedger(repos).Insert(ctx, mv(1, "7")); err != nil {
			return err
		}
		_, err := inventory.NewAggregator(repos).Refresh(ctx, "m1")
		return err
	}))

	m, err := s.Repos().Materials.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, m.CurrentStock.Equal(dec("7")))
	assert.True(t, m.AverageCost.IsZero())
}

func TestAggregator_CostoDesdeUltimaCompraRestante(t *testing.T) {
	s := newStore(t)
	older := purchaseIn(1, "1000", "0.12")
	newer := purchaseIn(9, "1000", "0.20")

	var agg entity.MaterialAggregate
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		l := inventory.NewMovementLedger(repos)
		for _, m := range []*entity.StockMovement{newer, older} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
		}
		if _, err := l.Delete(ctx, newer.ID); err != nil {
			return err
		}
		var err error
		agg, err = inventory.NewAggregator(repos).Refresh(ctx, "m1")
		return err
	}))

	assert.True(t, agg.AverageCost.Equal(dec("0.12")), "obtuvo %s", agg.AverageCost)
	assert.True(t, agg.LastPurchasePrice.Equal(dec("120")), "obtuvo %s", agg.LastPurchasePrice)
	assert.True(t, agg.CurrentStock.Equal(dec("1000")))
}

// Una compra retroactiva no desplaza el costo de la compra más reciente por fecha,
// y registrar y borrar otra compra intermedia deja el mismo costo.
func TestAggregator_CompraRetroactivaNoCambiaCosto(t *testing.T) {
	s := newStore(t)
	newer := purchaseIn(10, "1000", "0.20")
	older := purchaseIn(1, "1000", "0.10")
	middle := purchaseIn(3, "1000", "0.15")

	refresh := func(ctx context.Context, repos repository.TxRepos) entity.MaterialAggregate {
		agg, err := inventory.NewAggregator(repos).Refresh(ctx, "m1")
		require.NoError(t, err)
		return agg
	}
	var afterBackdate, afterMiddle entity.MaterialAggregate
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		l := inventory.NewMovementLedger(repos)
		for _, m := range []*entity.StockMovement{newer, older} {
			if err := l.Insert(ctx, m); err != nil {
				return err
			}
			afterBackdate = refresh(ctx, repos)
		}
		if err := l.Insert(ctx, middle); err != nil {
			return err
		}
		refresh(ctx, repos)
		if _, err := l.Delete(ctx, middle.ID); err != nil {
			return err
		}
		afterMiddle = refresh(ctx, repos)
		return nil
	}))

	assert.True(t, afterBackdate.AverageCost.Equal(dec("0.20")), "obtuvo %s", afterBackdate.AverageCost)
	assert.True(t, afterBackdate.LastPurchasePrice.Equal(dec("200")), "obtuvo %s", afterBackdate.LastPurchasePrice)
	assert.True(t, afterMiddle.AverageCost.Equal(afterBackdate.AverageCost), "obtuvo %s", afterMiddle.AverageCost)
	assert.True(t, afterMiddle.LastPurchasePrice.Equal(afterBackdate.LastPurchasePrice))
	assert.True(t, afterMiddle.CurrentStock.Equal(dec("2000")))
}

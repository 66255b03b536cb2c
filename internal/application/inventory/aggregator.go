package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// Aggregator deriva los cachés del material (stock total, costo, último precio) desde el ledger.
type Aggregator struct {
	movements repository.StockMovementRepository
	materials repository.MaterialRepository
	units     repository.UnitRepository
}

// NewAggregator construye el agregador sobre los repos de la transacción.
func NewAggregator(repos repository.TxRepos) *Aggregator {
	return &Aggregator{movements: repos.Movements, materials: repos.Materials, units: repos.Units}
}

// Refresh recalcula CurrentStock como suma de todos los movimientos del material y toma
// AverageCost y LastPurchasePrice de la compra más reciente por (fecha, secuencia) del ledger.
// Si no queda ninguna compra los costos cacheados no cambian. El resultado depende solo del
// ledger, no del orden en que se registraron las facturas.
func (a *Aggregator) Refresh(ctx context.Context, materialID string) (entity.MaterialAggregate, error) {
	material, err := a.lockMaterial(ctx, materialID)
	if err != nil {
		return entity.MaterialAggregate{}, err
	}
	if err := a.refreshStock(ctx, material); err != nil {
		return entity.MaterialAggregate{}, err
	}
	latest, err := a.movements.LatestPurchase(ctx, materialID)
	if err != nil {
		return entity.MaterialAggregate{}, err
	}
	if latest != nil {
		material.AverageCost = domaininv.CostCalculator(material.AverageCost, latest)
		graph, err := LoadUnitGraph(ctx, a.units, material.ConsumptionUnitID, material.PurchaseUnitID)
		if err != nil {
			return entity.MaterialAggregate{}, err
		}
		_, price, err := graph.Convert(latest.Quantity, latest.UnitCost, material.ConsumptionUnitID, material.PurchaseUnitID)
		if err != nil {
			return entity.MaterialAggregate{}, err
		}
		material.LastPurchasePrice = price
	}
	return a.save(ctx, material)
}

func (a *Aggregator) lockMaterial(ctx context.Context, materialID string) (*entity.Material, error) {
	material, err := a.materials.GetForUpdate(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrUnknownEntity, materialID)
	}
	return material, nil
}

func (a *Aggregator) refreshStock(ctx context.Context, material *entity.Material) error {
	stock, err := a.movements.SumByMaterial(ctx, material.ID)
	if err != nil {
		return err
	}
	material.CurrentStock = stock
	return nil
}

func (a *Aggregator) save(ctx context.Context, material *entity.Material) (entity.MaterialAggregate, error) {
	if err := a.materials.UpdateAggregates(ctx, material); err != nil {
		return entity.MaterialAggregate{}, err
	}
	return entity.MaterialAggregate{
		MaterialID:        material.ID,
		CurrentStock:      material.CurrentStock,
		AverageCost:       material.AverageCost,
		LastPurchasePrice: material.LastPurchasePrice,
	}, nil
}

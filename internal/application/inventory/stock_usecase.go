package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// StockUseCase consultas de solo lectura sobre el ledger y reconstrucción de cadenas.
type StockUseCase struct {
	txRunner  TxRunner
	movements repository.StockMovementRepository
	materials repository.MaterialRepository
}

// NewStockUseCase construye el caso de uso. movements/materials son repos fuera de transacción.
func NewStockUseCase(txRunner TxRunner, movements repository.StockMovementRepository, materials repository.MaterialRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, movements: movements, materials: materials}
}

// CurrentStock suma de todas las cantidades del material en todas las bodegas.
func (uc *StockUseCase) CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error) {
	if err := uc.requireMaterial(ctx, materialID); err != nil {
		return decimal.Zero, err
	}
	return uc.movements.SumByMaterial(ctx, materialID)
}

// WarehouseStock saldo de la cadena (material, bodega). warehouseID nil = movimientos sin bodega.
func (uc *StockUseCase) WarehouseStock(ctx context.Context, materialID string, warehouseID *string) (decimal.Decimal, error) {
	levels, err := uc.Levels(ctx, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	key := entity.MovementKey{MaterialID: materialID, WarehouseID: warehouseID}
	for _, lv := range levels {
		if key.Equal(entity.MovementKey{MaterialID: lv.MaterialID, WarehouseID: lv.WarehouseID}) {
			return lv.Quantity, nil
		}
	}
	return decimal.Zero, nil
}

// Levels saldos por bodega del material.
func (uc *StockUseCase) Levels(ctx context.Context, materialID string) ([]entity.StockLevel, error) {
	if err := uc.requireMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	return uc.movements.Levels(ctx, materialID)
}

// Movements cadena ordenada de una clave.
func (uc *StockUseCase) Movements(ctx context.Context, materialID string, warehouseID *string) ([]*entity.StockMovement, error) {
	if err := uc.requireMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	key := entity.MovementKey{MaterialID: materialID, WarehouseID: warehouseID}
	return uc.movements.ListFrom(ctx, key, time.Time{})
}

// RebuildReport resultado de una reconstrucción.
type RebuildReport struct {
	MaterialID string
	Keys       int
	Rewritten  int
	Aggregate  entity.MaterialAggregate
}

// RebuildMaterial recorre desde cero todas las cadenas del material y recalcula stock y costos cacheados.
func (uc *StockUseCase) RebuildMaterial(ctx context.Context, materialID string) (*RebuildReport, error) {
	report := &RebuildReport{MaterialID: materialID}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		keys, err := repos.Movements.ListKeys(ctx, materialID)
		if err != nil {
			return err
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		if err := repos.Locker.LockKeys(ctx, names...); err != nil {
			return err
		}
		ledger := NewMovementLedger(repos)
		for _, k := range keys {
			n, err := ledger.Rebuild(ctx, k)
			if err != nil {
				return err
			}
			report.Rewritten += n
		}
		report.Keys = len(keys)
		agg, err := NewAggregator(repos).Refresh(ctx, materialID)
		if err != nil {
			return err
		}
		report.Aggregate = agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (uc *StockUseCase) requireMaterial(ctx context.Context, materialID string) error {
	m, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}
	return nil
}

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// MovementLedger mantiene la cadena de saldos de cada clave (material, bodega).
// Opera con repositorios atados a la transacción del llamador; toda mutación en la fecha D
// recalcula los snapshots de todos los movimientos con fecha >= D de esa clave.
type MovementLedger struct {
	movements  repository.StockMovementRepository
	materials  repository.MaterialRepository
	warehouses repository.WarehouseRepository
	locker     repository.KeyLocker
}

// NewMovementLedger construye el ledger sobre los repos de la transacción.
func NewMovementLedger(repos repository.TxRepos) *MovementLedger {
	return &MovementLedger{
		movements:  repos.Movements,
		materials:  repos.Materials,
		warehouses: repos.Warehouses,
		locker:     repos.Locker,
	}
}

// Insert valida y persiste el movimiento con su snapshot y corrige la cadena posterior.
// Los movimientos existentes con la misma fecha preceden al nuevo (orden de inserción).
func (l *MovementLedger) Insert(ctx context.Context, m *entity.StockMovement) error {
	if m.MaterialID == "" || !entity.ValidMovementType(m.Type) || m.Quantity.IsZero() || m.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if err := l.checkReferences(ctx, m); err != nil {
		return err
	}
	key := m.Key()
	if err := l.locker.LockKeys(ctx, key.String()); err != nil {
		return err
	}

	before, err := l.stockAt(ctx, key, m.Date)
	if err != nil {
		return err
	}
	m.StockBefore = before
	m.StockAfter = before.Add(m.Quantity)
	if err := l.movements.Create(ctx, m); err != nil {
		return err
	}
	_, err = l.RecomputeFrom(ctx, key, m.Date)
	return err
}

// Delete elimina el movimiento y recalcula la cadena desde su fecha. Devuelve el movimiento borrado.
func (l *MovementLedger) Delete(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := l.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	key := m.Key()
	if err := l.locker.LockKeys(ctx, key.String()); err != nil {
		return nil, err
	}
	if err := l.movements.Delete(ctx, id); err != nil {
		return nil, err
	}
	if _, err := l.RecomputeFrom(ctx, key, m.Date); err != nil {
		return nil, err
	}
	return m, nil
}

// RecomputeFrom rehace before/after de todos los movimientos de key con fecha >= from.
// El saldo inicial es la suma de todo lo anterior a from. Devuelve las filas reescritas.
func (l *MovementLedger) RecomputeFrom(ctx context.Context, key entity.MovementKey, from time.Time) (int, error) {
	baseline, err := l.movements.SumBefore(ctx, key, from)
	if err != nil {
		return 0, err
	}
	chain, err := l.movements.ListFrom(ctx, key, from)
	if err != nil {
		return 0, err
	}
	changed, _ := domaininv.RecomputeChain(chain, baseline)
	for _, m := range changed {
		if err := l.movements.UpdateSnapshot(ctx, m.ID, m.StockBefore, m.StockAfter); err != nil {
			return 0, fmt.Errorf("recompute %s: %w", key, err)
		}
	}
	return len(changed), nil
}

// Rebuild recalcula la cadena completa de la clave (reconciliación).
func (l *MovementLedger) Rebuild(ctx context.Context, key entity.MovementKey) (int, error) {
	if err := l.locker.LockKeys(ctx, key.String()); err != nil {
		return 0, err
	}
	return l.RecomputeFrom(ctx, key, time.Time{})
}

// stockAt saldo que precede a un movimiento nuevo en la fecha date:
// todo lo anterior a date más lo ya registrado exactamente en date.
func (l *MovementLedger) stockAt(ctx context.Context, key entity.MovementKey, date time.Time) (decimal.Decimal, error) {
	sum, err := l.movements.SumBefore(ctx, key, date)
	if err != nil {
		return decimal.Zero, err
	}
	sameDate, err := l.movements.ListFrom(ctx, key, date)
	if err != nil {
		return decimal.Zero, err
	}
	for _, m := range sameDate {
		if m.Date.Equal(date) {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (l *MovementLedger) checkReferences(ctx context.Context, m *entity.StockMovement) error {
	material, err := l.materials.GetByID(ctx, m.MaterialID)
	if err != nil {
		return err
	}
	if material == nil {
		return fmt.Errorf("%w: material %s", domain.ErrUnknownEntity, m.MaterialID)
	}
	if m.WarehouseID != nil {
		wh, err := l.warehouses.GetByID(ctx, *m.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return fmt.Errorf("%w: bodega %s", domain.ErrUnknownEntity, *m.WarehouseID)
		}
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementRepository puerto de persistencia del ledger de movimientos.
// Los listados devuelven la cadena ordenada por (date, seq) ascendente.
type StockMovementRepository interface {
	// Create persiste el movimiento y asigna ID (si falta), Seq y CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	Delete(ctx context.Context, id string) error
	UpdateSnapshot(ctx context.Context, id string, before, after decimal.Decimal) error

	ListBySource(ctx context.Context, sourceRef string) ([]*entity.StockMovement, error)
	// ListFrom lista los movimientos de la clave con date >= from.
	ListFrom(ctx context.Context, key entity.MovementKey, from time.Time) ([]*entity.StockMovement, error)
	// SumBefore suma las cantidades de la clave con date < before.
	SumBefore(ctx context.Context, key entity.MovementKey, before time.Time) (decimal.Decimal, error)

	ListKeys(ctx context.Context, materialID string) ([]entity.MovementKey, error)
	Levels(ctx context.Context, materialID string) ([]entity.StockLevel, error)
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
	LatestPurchase(ctx context.Context, materialID string) (*entity.StockMovement, error)
}

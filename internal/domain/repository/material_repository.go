package repository

import (
	"context"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// MaterialRepository puerto de persistencia para Material.
// Las columnas cacheadas (stock, costo) solo se escriben vía UpdateAggregates.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila del material hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	UpdateAggregates(ctx context.Context, material *entity.Material) error
}

package repository

import (
	"context"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// UnitRepository puerto de lectura de unidades (datos de referencia).
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
}

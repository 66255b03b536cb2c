package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountTransactionRepository puerto de persistencia del ledger de cuentas corrientes.
type AccountTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CurrentAccountTransaction) error
	GetByID(ctx context.Context, id string) (*entity.CurrentAccountTransaction, error)
	// GetBySource devuelve la única transacción ligada al documento, o nil.
	GetBySource(ctx context.Context, sourceRef string) (*entity.CurrentAccountTransaction, error)
	// Update reescribe tipo, monto, fecha y descripción.
	Update(ctx context.Context, tx *entity.CurrentAccountTransaction) error
	Delete(ctx context.Context, id string) error
	UpdateSnapshot(ctx context.Context, id string, before, after decimal.Decimal) error

	// ListFrom lista la cadena de la cuenta con transaction_date >= from, ordenada por (fecha, seq).
	ListFrom(ctx context.Context, accountID string, from time.Time) ([]*entity.CurrentAccountTransaction, error)
	// SumBefore suma los montos con signo de la cuenta con transaction_date < before.
	SumBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CurrentAccountRepository puerto de persistencia para cuentas corrientes.
type CurrentAccountRepository interface {
	Create(ctx context.Context, account *entity.CurrentAccount) error
	GetByID(ctx context.Context, id string) (*entity.CurrentAccount, error)
	GetByCounterparty(ctx context.Context, counterpartyID string) (*entity.CurrentAccount, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
}

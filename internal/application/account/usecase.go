package account

import (
	"context"
	"time"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// AccountUseCase consultas y reconciliación de cuentas corrientes.
type AccountUseCase struct {
	txRunner     TxRunner
	accounts     repository.CurrentAccountRepository
	transactions repository.AccountTransactionRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(txRunner TxRunner, accounts repository.CurrentAccountRepository, transactions repository.AccountTransactionRepository) *AccountUseCase {
	return &AccountUseCase{txRunner: txRunner, accounts: accounts, transactions: transactions}
}

// Statement cuenta y su cadena completa de transacciones.
func (uc *AccountUseCase) Statement(ctx context.Context, accountID string) (*entity.CurrentAccount, []*entity.CurrentAccountTransaction, error) {
	acc, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if acc == nil {
		return nil, nil, domain.ErrNotFound
	}
	txs, err := uc.transactions.ListFrom(ctx, accountID, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	return acc, txs, nil
}

// RebuildAccount recalcula la cadena completa y el saldo cacheado de la cuenta.
func (uc *AccountUseCase) RebuildAccount(ctx context.Context, accountID string) (*entity.CurrentAccount, int, error) {
	var acc *entity.CurrentAccount
	var rewritten int
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		acc, rewritten, err = NewLedger(repos).Rebuild(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return acc, rewritten, nil
}

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// LockKey clave de bloqueo de la cadena de una cuenta.
func LockKey(accountID string) string { return "account:" + accountID }

// TransactionChange nuevos valores de una transacción editada en sitio.
type TransactionChange struct {
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// Ledger cadena de saldos de una cuenta corriente. Insert, Update y Delete recalculan
// balanceBefore/balanceAfter desde la fecha afectada y actualizan CurrentBalance.
type Ledger struct {
	accounts     repository.CurrentAccountRepository
	transactions repository.AccountTransactionRepository
	locker       repository.KeyLocker
}

// NewLedger construye el ledger sobre los repos de la transacción.
func NewLedger(repos repository.TxRepos) *Ledger {
	return &Ledger{accounts: repos.Accounts, transactions: repos.Transactions, locker: repos.Locker}
}

// EnsureAccount devuelve la cuenta de la contraparte, creándola con saldo de apertura 0 si no existe.
func (l *Ledger) EnsureAccount(ctx context.Context, counterpartyID, counterpartyType, name string) (*entity.CurrentAccount, error) {
	if counterpartyID == "" {
		return nil, domain.ErrInvalidInput
	}
	acc, err := l.accounts.GetByCounterparty(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}
	now := time.Now().UTC()
	acc = &entity.CurrentAccount{
		ID:               uuid.New().String(),
		CounterpartyID:   counterpartyID,
		CounterpartyType: counterpartyType,
		Name:             name,
		OpeningBalance:   decimal.Zero,
		CurrentBalance:   decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := l.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Insert persiste la transacción con su snapshot y corrige la cadena posterior.
func (l *Ledger) Insert(ctx context.Context, t *entity.CurrentAccountTransaction) error {
	if t.CurrentAccountID == "" || !entity.ValidTransactionType(t.Type) || t.Amount.IsNegative() || t.TransactionDate.IsZero() {
		return domain.ErrInvalidInput
	}
	acc, err := l.lockAccount(ctx, t.CurrentAccountID)
	if err != nil {
		return err
	}
	before, err := l.balanceAt(ctx, acc, t.TransactionDate)
	if err != nil {
		return err
	}
	t.SetSnapshot(before, before.Add(t.Delta()))
	if err := l.transactions.Create(ctx, t); err != nil {
		return err
	}
	_, err = l.RecomputeFrom(ctx, acc, t.TransactionDate)
	return err
}

// Update edita tipo, monto y fecha en sitio y recalcula desde la fecha más temprana de las dos.
func (l *Ledger) Update(ctx context.Context, id string, change TransactionChange) (*entity.CurrentAccountTransaction, error) {
	if !entity.ValidTransactionType(change.Type) || change.Amount.IsNegative() || change.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	t, err := l.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	acc, err := l.lockAccount(ctx, t.CurrentAccountID)
	if err != nil {
		return nil, err
	}
	from := t.TransactionDate
	if change.Date.Before(from) {
		from = change.Date
	}
	t.Type = change.Type
	t.Amount = change.Amount
	t.TransactionDate = change.Date
	t.Description = change.Description
	t.UpdatedAt = time.Now().UTC()
	if err := l.transactions.Update(ctx, t); err != nil {
		return nil, err
	}
	if _, err := l.RecomputeFrom(ctx, acc, from); err != nil {
		return nil, err
	}
	return l.transactions.GetByID(ctx, id)
}

// Delete elimina la transacción y recalcula desde su fecha.
func (l *Ledger) Delete(ctx context.Context, id string) (*entity.CurrentAccountTransaction, error) {
	t, err := l.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	acc, err := l.lockAccount(ctx, t.CurrentAccountID)
	if err != nil {
		return nil, err
	}
	if err := l.transactions.Delete(ctx, id); err != nil {
		return nil, err
	}
	if _, err := l.RecomputeFrom(ctx, acc, t.TransactionDate); err != nil {
		return nil, err
	}
	return t, nil
}

// RecomputeFrom rehace los snapshots de la cuenta con fecha >= from y deja CurrentBalance
// igual al balanceAfter de la última transacción (o al saldo de apertura si no hay ninguna).
func (l *Ledger) RecomputeFrom(ctx context.Context, acc *entity.CurrentAccount, from time.Time) (int, error) {
	sum, err := l.transactions.SumBefore(ctx, acc.ID, from)
	if err != nil {
		return 0, err
	}
	chain, err := l.transactions.ListFrom(ctx, acc.ID, from)
	if err != nil {
		return 0, err
	}
	changed, final := domaininv.RecomputeChain(chain, acc.OpeningBalance.Add(sum))
	for _, t := range changed {
		if err := l.transactions.UpdateSnapshot(ctx, t.ID, t.BalanceBefore, t.BalanceAfter); err != nil {
			return 0, fmt.Errorf("recompute %s: %w", LockKey(acc.ID), err)
		}
	}
	if !acc.CurrentBalance.Equal(final) {
		if err := l.accounts.UpdateBalance(ctx, acc.ID, final); err != nil {
			return 0, err
		}
		acc.CurrentBalance = final
	}
	return len(changed), nil
}

// Rebuild recalcula la cadena completa de la cuenta.
func (l *Ledger) Rebuild(ctx context.Context, accountID string) (*entity.CurrentAccount, int, error) {
	acc, err := l.lockAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	n, err := l.RecomputeFrom(ctx, acc, time.Time{})
	if err != nil {
		return nil, 0, err
	}
	return acc, n, nil
}

func (l *Ledger) lockAccount(ctx context.Context, accountID string) (*entity.CurrentAccount, error) {
	if err := l.locker.LockKeys(ctx, LockKey(accountID)); err != nil {
		return nil, err
	}
	acc, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrUnknownEntity, accountID)
	}
	return acc, nil
}

// balanceAt saldo que precede a una transacción nueva en la fecha date.
func (l *Ledger) balanceAt(ctx context.Context, acc *entity.CurrentAccount, date time.Time) (decimal.Decimal, error) {
	sum, err := l.transactions.SumBefore(ctx, acc.ID, date)
	if err != nil {
		return decimal.Zero, err
	}
	sameDate, err := l.transactions.ListFrom(ctx, acc.ID, date)
	if err != nil {
		return decimal.Zero, err
	}
	for _, t := range sameDate {
		if t.TransactionDate.Equal(date) {
			sum = sum.Add(t.Delta())
		}
	}
	return acc.OpeningBalance.Add(sum), nil
}

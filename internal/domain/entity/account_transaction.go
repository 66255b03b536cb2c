package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de cuenta corriente.
const (
	TransactionTypeDebt   = "DEBT"   // aumenta lo adeudado a la contraparte
	TransactionTypeCredit = "CREDIT" // lo disminuye
)

// CurrentAccountTransaction delta de saldo en la cadena de una cuenta corriente.
// Amount es magnitud sin signo; el signo lo da Type.
type CurrentAccountTransaction struct {
	ID               string
	Seq              int64
	CurrentAccountID string
	Type             string
	Amount           decimal.Decimal
	BalanceBefore    decimal.Decimal
	BalanceAfter     decimal.Decimal
	TransactionDate  time.Time
	SourceRef        string
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Delta implementa ChainEntry: DEBT suma, CREDIT resta.
func (t *CurrentAccountTransaction) Delta() decimal.Decimal {
	if t.Type == TransactionTypeCredit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Snapshot implementa ChainEntry.
func (t *CurrentAccountTransaction) Snapshot() (before, after decimal.Decimal) {
	return t.BalanceBefore, t.BalanceAfter
}

// SetSnapshot implementa ChainEntry.
func (t *CurrentAccountTransaction) SetSnapshot(before, after decimal.Decimal) {
	t.BalanceBefore, t.BalanceAfter = before, after
}

// ValidTransactionType indica si t es DEBT o CREDIT.
func ValidTransactionType(t string) bool {
	return t == TransactionTypeDebt || t == TransactionTypeCredit
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// AccountDTO cuenta corriente.
type AccountDTO struct {
	ID               string          `json:"id"`
	CounterpartyID   string          `json:"counterparty_id"`
	CounterpartyType string          `json:"counterparty_type"`
	Name             string          `json:"name"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
}

// NewAccountDTO convierte una cuenta de dominio.
func NewAccountDTO(a *entity.CurrentAccount) AccountDTO {
	return AccountDTO{
		ID:               a.ID,
		CounterpartyID:   a.CounterpartyID,
		CounterpartyType: a.CounterpartyType,
		Name:             a.Name,
		OpeningBalance:   a.OpeningBalance,
		CurrentBalance:   a.CurrentBalance,
	}
}

// TransactionDTO transacción de cuenta corriente.
type TransactionDTO struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	TransactionDate time.Time       `json:"transaction_date"`
	SourceRef       string          `json:"source_ref,omitempty"`
	Description     string          `json:"description,omitempty"`
}

// NewTransactionDTO convierte una transacción de dominio.
func NewTransactionDTO(t *entity.CurrentAccountTransaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		TransactionDate: t.TransactionDate,
		SourceRef:       t.SourceRef,
		Description:     t.Description,
	}
}

// StatementResponse estado de cuenta: cuenta y cadena completa de transacciones.
type StatementResponse struct {
	Account      AccountDTO       `json:"account"`
	Transactions []TransactionDTO `json:"transactions"`
}

// NewStatementResponse arma el estado de cuenta.
func NewStatementResponse(a *entity.CurrentAccount, txs []*entity.CurrentAccountTransaction) StatementResponse {
	out := StatementResponse{Account: NewAccountDTO(a), Transactions: make([]TransactionDTO, 0, len(txs))}
	for _, t := range txs {
		out.Transactions = append(out.Transactions, NewTransactionDTO(t))
	}
	return out
}

// RebuildAccountResponse resultado de la reconstrucción de una cuenta.
type RebuildAccountResponse struct {
	Account   AccountDTO `json:"account"`
	Rewritten int        `json:"rewritten"`
}

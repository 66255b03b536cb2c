package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

var _ repository.AccountTransactionRepository = (*AccountTransactionRepo)(nil)

const accountTransactionsTable = "current_account_transactions"

var accountTransactionColumns = []string{
	"id", "seq", "current_account_id", "type", "amount", "balance_before", "balance_after",
	"transaction_date", "source_ref", "description", "created_at", "updated_at",
}

type accountTransactionRow struct {
	ID               string          `db:"id"`
	Seq              int64           `db:"seq"`
	CurrentAccountID string          `db:"current_account_id"`
	Type             string          `db:"type"`
	Amount           decimal.Decimal `db:"amount"`
	BalanceBefore    decimal.Decimal `db:"balance_before"`
	BalanceAfter     decimal.Decimal `db:"balance_after"`
	TransactionDate  time.Time       `db:"transaction_date"`
	SourceRef        string          `db:"source_ref"`
	Description      string          `db:"description"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// AccountTransactionRepo ledger de cuentas corrientes sobre PostgreSQL.
type AccountTransactionRepo struct {
	q Querier
}

// NewAccountTransactionRepository construye el adaptador.
func NewAccountTransactionRepository(q Querier) *AccountTransactionRepo {
	return &AccountTransactionRepo{q: q}
}

// Create persiste la transacción; seq lo asigna la base.
func (r *AccountTransactionRepo) Create(ctx context.Context, t *entity.CurrentAccountTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	sql, args, err := psql.Insert(accountTransactionsTable).
		Columns("id", "current_account_id", "type", "amount", "balance_before", "balance_after",
			"transaction_date", "source_ref", "description", "created_at", "updated_at").
		Values(t.ID, t.CurrentAccountID, t.Type, t.Amount, t.BalanceBefore, t.BalanceAfter,
			t.TransactionDate, t.SourceRef, t.Description, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&t.Seq); err != nil {
		return fmt.Errorf("create account transaction: %w", mapError(err))
	}
	return nil
}

func (r *AccountTransactionRepo) getBy(ctx context.Context, where squirrel.Eq) (*entity.CurrentAccountTransaction, error) {
	sql, args, err := psql.Select(accountTransactionColumns...).From(accountTransactionsTable).
		Where(where).OrderBy("seq").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row accountTransactionRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account transaction: %w", mapError(err))
	}
	t := entity.CurrentAccountTransaction(row)
	return &t, nil
}

// GetByID obtiene una transacción por ID.
func (r *AccountTransactionRepo) GetByID(ctx context.Context, id string) (*entity.CurrentAccountTransaction, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetBySource transacción ligada a un documento, o nil.
func (r *AccountTransactionRepo) GetBySource(ctx context.Context, sourceRef string) (*entity.CurrentAccountTransaction, error) {
	return r.getBy(ctx, squirrel.Eq{"source_ref": sourceRef})
}

// Update reescribe tipo, monto, fecha y descripción.
func (r *AccountTransactionRepo) Update(ctx context.Context, t *entity.CurrentAccountTransaction) error {
	sql, args, err := psql.Update(accountTransactionsTable).
		Set("type", t.Type).
		Set("amount", t.Amount).
		Set("transaction_date", t.TransactionDate).
		Set("description", t.Description).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update account transaction: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transacción %s", domain.ErrConcurrentMutation, t.ID)
	}
	return nil
}

// Delete elimina una transacción.
func (r *AccountTransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM current_account_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account transaction: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSnapshot reescribe balance_before/balance_after.
func (r *AccountTransactionRepo) UpdateSnapshot(ctx context.Context, id string, before, after decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE current_account_transactions SET balance_before = $2, balance_after = $3 WHERE id = $1`,
		id, before, after)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transacción %s", domain.ErrConcurrentMutation, id)
	}
	return nil
}

// ListFrom cadena de la cuenta con transaction_date >= from, por (fecha, seq).
func (r *AccountTransactionRepo) ListFrom(ctx context.Context, accountID string, from time.Time) ([]*entity.CurrentAccountTransaction, error) {
	sql, args, err := psql.Select(accountTransactionColumns...).From(accountTransactionsTable).
		Where(squirrel.Eq{"current_account_id": accountID}).
		Where(squirrel.GtOrEq{"transaction_date": from}).
		OrderBy("transaction_date", "seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []accountTransactionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select account transactions: %w", mapError(err))
	}
	out := make([]*entity.CurrentAccountTransaction, len(rows))
	for i := range rows {
		t := entity.CurrentAccountTransaction(rows[i])
		out[i] = &t
	}
	return out, nil
}

// SumBefore suma con signo (DEBT +, CREDIT -) de lo anterior a before.
func (r *AccountTransactionRepo) SumBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	sql, args, err := psql.
		Select("COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN -amount ELSE amount END), 0)").
		From(accountTransactionsTable).
		Where(squirrel.Eq{"current_account_id": accountID}).
		Where(squirrel.Lt{"transaction_date": before}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum account transactions: %w", mapError(err))
	}
	return sum, nil
}

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

var _ repository.CurrentAccountRepository = (*CurrentAccountRepo)(nil)

var currentAccountColumns = []string{
	"id", "counterparty_id", "counterparty_type", "name",
	"opening_balance", "current_balance", "created_at", "updated_at",
}

type currentAccountRow struct {
	ID               string          `db:"id"`
	CounterpartyID   string          `db:"counterparty_id"`
	CounterpartyType string          `db:"counterparty_type"`
	Name             string          `db:"name"`
	OpeningBalance   decimal.Decimal `db:"opening_balance"`
	CurrentBalance   decimal.Decimal `db:"current_balance"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// CurrentAccountRepo cuentas corrientes sobre PostgreSQL.
type CurrentAccountRepo struct {
	q Querier
}

// NewCurrentAccountRepository construye el adaptador.
func NewCurrentAccountRepository(q Querier) *CurrentAccountRepo {
	return &CurrentAccountRepo{q: q}
}

// Create persiste la cuenta. Una segunda cuenta para la misma contraparte choca con
// la restricción única y sale como ErrConcurrentMutation.
func (r *CurrentAccountRepo) Create(ctx context.Context, a *entity.CurrentAccount) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		now := time.Now().UTC()
		a.CreatedAt, a.UpdatedAt = now, now
	}
	sql, args, err := psql.Insert("current_accounts").
		Columns(currentAccountColumns...).
		Values(a.ID, a.CounterpartyID, a.CounterpartyType, a.Name,
			a.OpeningBalance, a.CurrentBalance, a.CreatedAt, a.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert current account: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *CurrentAccountRepo) GetByID(ctx context.Context, id string) (*entity.CurrentAccount, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByCounterparty obtiene la cuenta de una contraparte.
func (r *CurrentAccountRepo) GetByCounterparty(ctx context.Context, counterpartyID string) (*entity.CurrentAccount, error) {
	return r.getBy(ctx, squirrel.Eq{"counterparty_id": counterpartyID})
}

func (r *CurrentAccountRepo) getBy(ctx context.Context, where squirrel.Eq) (*entity.CurrentAccount, error) {
	sql, args, err := psql.Select(currentAccountColumns...).From("current_accounts").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row currentAccountRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current account: %w", mapError(err))
	}
	a := entity.CurrentAccount(row)
	return &a, nil
}

// UpdateBalance escribe el saldo cacheado.
func (r *CurrentAccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE current_accounts SET current_balance = $2, updated_at = $3 WHERE id = $1`,
		id, balance, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update balance: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

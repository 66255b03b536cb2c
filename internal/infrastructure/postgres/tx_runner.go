package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Backoffice-ledger/internal/application/account"
	"github.com/jhoicas/Backoffice-ledger/internal/application/inventory"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and account.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ account.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera de cada bloqueo.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// NewRepos repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Movements:    NewStockMovementRepository(q),
		Materials:    NewMaterialRepository(q),
		Units:        NewUnitRepository(q),
		Warehouses:   NewWarehouseRepository(q),
		Accounts:     NewCurrentAccountRepository(q),
		Transactions: NewAccountTransactionRepository(q),
		Locker:       NewAdvisoryLocker(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de bloqueo, serialización o deadlock salen como domain.ErrConcurrentMutation.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

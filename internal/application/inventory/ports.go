package inventory

import (
	"context"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de ledgers: si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}

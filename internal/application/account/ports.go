package account

import (
	"context"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}

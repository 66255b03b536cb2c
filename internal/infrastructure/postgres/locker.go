package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

var _ repository.KeyLocker = (*AdvisoryLocker)(nil)

// AdvisoryLocker bloqueos consultivos de transacción (pg_advisory_xact_lock) por clave de cadena.
// Se liberan solos en commit/rollback; la espera la acota lock_timeout.
type AdvisoryLocker struct {
	q Querier
}

// NewAdvisoryLocker construye el locker. q debe ser una transacción.
func NewAdvisoryLocker(q Querier) *AdvisoryLocker {
	return &AdvisoryLocker{q: q}
}

// LockKeys adquiere las claves en el orden recibido.
func (l *AdvisoryLocker) LockKeys(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := l.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("lock %s: %w", key, mapError(err))
		}
	}
	return nil
}

// Package memory implementa los repositorios sobre mapas en memoria. Se usa en pruebas y
// con STORE_DRIVER=memory; una transacción trabaja sobre una copia del estado y el commit la publica.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

type state struct {
	units        map[string]*entity.Unit
	warehouses   map[string]*entity.Warehouse
	materials    map[string]*entity.Material
	movements    map[string]*entity.StockMovement
	accounts     map[string]*entity.CurrentAccount
	transactions map[string]*entity.CurrentAccountTransaction
	movementSeq  int64
	txSeq        int64
}

func newState() *state {
	return &state{
		units:        make(map[string]*entity.Unit),
		warehouses:   make(map[string]*entity.Warehouse),
		materials:    make(map[string]*entity.Material),
		movements:    make(map[string]*entity.StockMovement),
		accounts:     make(map[string]*entity.CurrentAccount),
		transactions: make(map[string]*entity.CurrentAccountTransaction),
	}
}

func cloneMap[T any](in map[string]*T) map[string]*T {
	out := make(map[string]*T, len(in))
	for k, v := range in {
		c := *v
		out[k] = &c
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		units:        cloneMap(s.units),
		warehouses:   cloneMap(s.warehouses),
		materials:    cloneMap(s.materials),
		movements:    cloneMap(s.movements),
		accounts:     cloneMap(s.accounts),
		transactions: cloneMap(s.transactions),
		movementSeq:  s.movementSeq,
		txSeq:        s.txSeq,
	}
}

// Store estado compartido. Las transacciones se serializan con un único mutex,
// por eso LockKeys no necesita hacer nada.
type Store struct {
	mu        sync.Mutex
	committed *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// view acceso a un estado. Fuera de transacción (autoLock) cada llamada toma el mutex
// y opera sobre el estado publicado.
type view struct {
	store    *Store
	st       *state
	autoLock bool
}

func (v *view) acquire() (*state, func()) {
	if !v.autoLock {
		return v.st, func() {}
	}
	v.store.mu.Lock()
	return v.store.committed, v.store.mu.Unlock
}

func (v *view) repos() repository.TxRepos {
	return repository.TxRepos{
		Movements:    &movementRepo{v},
		Materials:    &materialRepo{v},
		Units:        &unitRepo{v},
		Warehouses:   &warehouseRepo{v},
		Accounts:     &accountRepo{v},
		Transactions: &transactionRepo{v},
		Locker:       noopLocker{},
	}
}

// Repos repositorios fuera de transacción (lecturas y datos de referencia).
func (s *Store) Repos() repository.TxRepos {
	return (&view{store: s, autoLock: true}).repos()
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.committed.clone()
	if err := fn(ctx, (&view{store: s, st: work}).repos()); err != nil {
		return err
	}
	s.committed = work
	return nil
}

type noopLocker struct{}

func (noopLocker) LockKeys(ctx context.Context, _ ...string) error { return ctx.Err() }

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/inventory"
)

type movementRepo struct{ v *view }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st, release := r.v.acquire()
	defer release()
	if _, ok := st.materials[m.MaterialID]; !ok {
		return fmt.Errorf("%w: material %s", domain.ErrUnknownEntity, m.MaterialID)
	}
	if m.WarehouseID != nil {
		if _, ok := st.warehouses[*m.WarehouseID]; !ok {
			return fmt.Errorf("%w: bodega %s", domain.ErrUnknownEntity, *m.WarehouseID)
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	st.movementSeq++
	m.Seq = st.movementSeq
	m.CreatedAt = time.Now().UTC()
	c := *m
	st.movements[m.ID] = &c
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	st, release := r.v.acquire()
	defer release()
	m, ok := st.movements[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	st, release := r.v.acquire()
	defer release()
	if _, ok := st.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.movements, id)
	return nil
}

func (r *movementRepo) UpdateSnapshot(_ context.Context, id string, before, after decimal.Decimal) error {
	st, release := r.v.acquire()
	defer release()
	m, ok := st.movements[id]
	if !ok {
		return fmt.Errorf("%w: movimiento %s", domain.ErrConcurrentMutation, id)
	}
	m.StockBefore, m.StockAfter = before, after
	return nil
}

// filterMovements copia los movimientos que cumplen keep, ordenados por (fecha, seq).
func (st *state) filterMovements(keep func(*entity.StockMovement) bool) []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0)
	for _, m := range st.movements {
		if keep(m) {
			c := *m
			out = append(out, &c)
		}
	}
	inventory.SortMovements(out)
	return out
}

func (r *movementRepo) ListBySource(_ context.Context, sourceRef string) ([]*entity.StockMovement, error) {
	st, release := r.v.acquire()
	defer release()
	return st.filterMovements(func(m *entity.StockMovement) bool { return m.SourceRef == sourceRef }), nil
}

func (r *movementRepo) ListFrom(_ context.Context, key entity.MovementKey, from time.Time) ([]*entity.StockMovement, error) {
	st, release := r.v.acquire()
	defer release()
	return st.filterMovements(func(m *entity.StockMovement) bool {
		return m.Key().Equal(key) && !m.Date.Before(from)
	}), nil
}

func (r *movementRepo) SumBefore(_ context.Context, key entity.MovementKey, before time.Time) (decimal.Decimal, error) {
	st, release := r.v.acquire()
	defer release()
	sum := decimal.Zero
	for _, m := range st.movements {
		if m.Key().Equal(key) && m.Date.Before(before) {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (r *movementRepo) ListKeys(ctx context.Context, materialID string) ([]entity.MovementKey, error) {
	levels, err := r.Levels(ctx, materialID)
	if err != nil {
		return nil, err
	}
	keys := make([]entity.MovementKey, len(levels))
	for i, lv := range levels {
		keys[i] = entity.MovementKey{MaterialID: lv.MaterialID, WarehouseID: lv.WarehouseID}
	}
	return keys, nil
}

func (r *movementRepo) Levels(_ context.Context, materialID string) ([]entity.StockLevel, error) {
	st, release := r.v.acquire()
	defer release()
	byKey := make(map[string]*entity.StockLevel)
	for _, m := range st.movements {
		if m.MaterialID != materialID {
			continue
		}
		k := m.Key().String()
		lv, ok := byKey[k]
		if !ok {
			lv = &entity.StockLevel{MaterialID: m.MaterialID, WarehouseID: m.WarehouseID}
			byKey[k] = lv
		}
		lv.Quantity = lv.Quantity.Add(m.Quantity)
		lv.Movements++
	}
	names := make([]string, 0, len(byKey))
	for k := range byKey {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]entity.StockLevel, len(names))
	for i, k := range names {
		out[i] = *byKey[k]
	}
	return out, nil
}

func (r *movementRepo) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	st, release := r.v.acquire()
	defer release()
	sum := decimal.Zero
	for _, m := range st.movements {
		if m.MaterialID == materialID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (r *movementRepo) LatestPurchase(_ context.Context, materialID string) (*entity.StockMovement, error) {
	st, release := r.v.acquire()
	defer release()
	return inventory.LatestPurchase(st.filterMovements(func(m *entity.StockMovement) bool {
		return m.MaterialID == materialID
	})), nil
}

type accountRepo struct{ v *view }

func (r *accountRepo) Create(_ context.Context, a *entity.CurrentAccount) error {
	st, release := r.v.acquire()
	defer release()
	for _, other := range st.accounts {
		if other.CounterpartyID == a.CounterpartyID {
			return fmt.Errorf("%w: cuenta duplicada para %s", domain.ErrConcurrentMutation, a.CounterpartyID)
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	c := *a
	st.accounts[a.ID] = &c
	return nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*entity.CurrentAccount, error) {
	st, release := r.v.acquire()
	defer release()
	a, ok := st.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *accountRepo) GetByCounterparty(_ context.Context, counterpartyID string) (*entity.CurrentAccount, error) {
	st, release := r.v.acquire()
	defer release()
	for _, a := range st.accounts {
		if a.CounterpartyID == counterpartyID {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	st, release := r.v.acquire()
	defer release()
	a, ok := st.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CurrentBalance = balance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

type transactionRepo struct{ v *view }

func (r *transactionRepo) Create(_ context.Context, t *entity.CurrentAccountTransaction) error {
	st, release := r.v.acquire()
	defer release()
	if _, ok := st.accounts[t.CurrentAccountID]; !ok {
		return fmt.Errorf("%w: cuenta %s", domain.ErrUnknownEntity, t.CurrentAccountID)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	st.txSeq++
	t.Seq = st.txSeq
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	c := *t
	st.transactions[t.ID] = &c
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*entity.CurrentAccountTransaction, error) {
	st, release := r.v.acquire()
	defer release()
	t, ok := st.transactions[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *transactionRepo) GetBySource(_ context.Context, sourceRef string) (*entity.CurrentAccountTransaction, error) {
	st, release := r.v.acquire()
	defer release()
	for _, t := range st.transactions {
		if t.SourceRef == sourceRef {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *transactionRepo) Update(_ context.Context, t *entity.CurrentAccountTransaction) error {
	st, release := r.v.acquire()
	defer release()
	cur, ok := st.transactions[t.ID]
	if !ok {
		return fmt.Errorf("%w: transacción %s", domain.ErrConcurrentMutation, t.ID)
	}
	cur.Type = t.Type
	cur.Amount = t.Amount
	cur.TransactionDate = t.TransactionDate
	cur.Description = t.Description
	cur.UpdatedAt = t.UpdatedAt
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, id string) error {
	st, release := r.v.acquire()
	defer release()
	if _, ok := st.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.transactions, id)
	return nil
}

func (r *transactionRepo) UpdateSnapshot(_ context.Context, id string, before, after decimal.Decimal) error {
	st, release := r.v.acquire()
	defer release()
	t, ok := st.transactions[id]
	if !ok {
		return fmt.Errorf("%w: transacción %s", domain.ErrConcurrentMutation, id)
	}
	t.BalanceBefore, t.BalanceAfter = before, after
	return nil
}

func (st *state) accountChain(accountID string, keep func(*entity.CurrentAccountTransaction) bool) []*entity.CurrentAccountTransaction {
	out := make([]*entity.CurrentAccountTransaction, 0)
	for _, t := range st.transactions {
		if t.CurrentAccountID == accountID && keep(t) {
			c := *t
			out = append(out, &c)
		}
	}
	inventory.SortTransactions(out)
	return out
}

func (r *transactionRepo) ListFrom(_ context.Context, accountID string, from time.Time) ([]*entity.CurrentAccountTransaction, error) {
	st, release := r.v.acquire()
	defer release()
	return st.accountChain(accountID, func(t *entity.CurrentAccountTransaction) bool {
		return !t.TransactionDate.Before(from)
	}), nil
}

func (r *transactionRepo) SumBefore(_ context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	st, release := r.v.acquire()
	defer release()
	sum := decimal.Zero
	for _, t := range st.accountChain(accountID, func(t *entity.CurrentAccountTransaction) bool {
		return t.TransactionDate.Before(before)
	}) {
		sum = sum.Add(t.Delta())
	}
	return sum, nil
}

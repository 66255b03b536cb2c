package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

type unitRepo struct{ v *view }

func (r *unitRepo) Create(_ context.Context, u *entity.Unit) error {
	st, release := r.v.acquire()
	defer release()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if _, ok := st.units[u.ID]; ok {
		return fmt.Errorf("%w: unidad %s duplicada", domain.ErrInvalidInput, u.ID)
	}
	c := *u
	st.units[u.ID] = &c
	return nil
}

func (r *unitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	st, release := r.v.acquire()
	defer release()
	u, ok := st.units[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

type warehouseRepo struct{ v *view }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	st, release := r.v.acquire()
	defer release()
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	c := *w
	st.warehouses[w.ID] = &c
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	st, release := r.v.acquire()
	defer release()
	w, ok := st.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

type materialRepo struct{ v *view }

func (r *materialRepo) Create(_ context.Context, m *entity.Material) error {
	st, release := r.v.acquire()
	defer release()
	for _, unitID := range []string{m.PurchaseUnitID, m.ConsumptionUnitID} {
		if _, ok := st.units[unitID]; !ok {
			return fmt.Errorf("%w: unidad %s", domain.ErrUnknownEntity, unitID)
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	c := *m
	st.materials[m.ID] = &c
	return nil
}

func (r *materialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	st, release := r.v.acquire()
	defer release()
	m, ok := st.materials[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *materialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *materialRepo) UpdateAggregates(_ context.Context, m *entity.Material) error {
	st, release := r.v.acquire()
	defer release()
	cur, ok := st.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.CurrentStock = m.CurrentStock
	cur.AverageCost = m.AverageCost
	cur.LastPurchasePrice = m.LastPurchasePrice
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

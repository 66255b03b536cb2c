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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

var materialColumns = []string{
	"id", "name", "purchase_unit_id", "consumption_unit_id",
	"current_stock", "average_cost", "last_purchase_price", "created_at", "updated_at",
}

type materialRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	PurchaseUnitID    string          `db:"purchase_unit_id"`
	ConsumptionUnitID string          `db:"consumption_unit_id"`
	CurrentStock      decimal.Decimal `db:"current_stock"`
	AverageCost       decimal.Decimal `db:"average_cost"`
	LastPurchasePrice decimal.Decimal `db:"last_purchase_price"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// MaterialRepo materiales sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un material nuevo con los cachés en cero.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	sql, args, err := psql.Insert("materials").
		Columns(materialColumns...).
		Values(m.ID, m.Name, m.PurchaseUnitID, m.ConsumptionUnitID,
			m.CurrentStock, m.AverageCost, m.LastPurchasePrice, m.CreatedAt, m.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert material: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el material bloqueando su fila hasta el fin de la transacción.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *MaterialRepo) get(ctx context.Context, id, suffix string) (*entity.Material, error) {
	q := psql.Select(materialColumns...).From("materials").Where(squirrel.Eq{"id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row materialRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", mapError(err))
	}
	m := entity.Material(row)
	return &m, nil
}

// UpdateAggregates escribe stock, costo y último precio.
func (r *MaterialRepo) UpdateAggregates(ctx context.Context, m *entity.Material) error {
	m.UpdatedAt = time.Now().UTC()
	sql, args, err := psql.Update("materials").
		Set("current_stock", m.CurrentStock).
		Set("average_cost", m.AverageCost).
		Set("last_purchase_price", m.LastPurchasePrice).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update material aggregates: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

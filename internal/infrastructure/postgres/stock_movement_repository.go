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

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementsTable = "stock_movements"

var stockMovementColumns = []string{
	"id", "seq", "material_id", "warehouse_id", "date", "type",
	"quantity", "unit_cost", "total_cost", "stock_before", "stock_after",
	"source_type", "source_ref", "reason", "created_at",
}

type stockMovementRow struct {
	ID          string          `db:"id"`
	Seq         int64           `db:"seq"`
	MaterialID  string          `db:"material_id"`
	WarehouseID *string         `db:"warehouse_id"`
	Date        time.Time       `db:"date"`
	Type        string          `db:"type"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
	TotalCost   decimal.Decimal `db:"total_cost"`
	StockBefore decimal.Decimal `db:"stock_before"`
	StockAfter  decimal.Decimal `db:"stock_after"`
	SourceType  string          `db:"source_type"`
	SourceRef   string          `db:"source_ref"`
	Reason      string          `db:"reason"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r stockMovementRow) entity() *entity.StockMovement {
	return &entity.StockMovement{
		ID:          r.ID,
		Seq:         r.Seq,
		MaterialID:  r.MaterialID,
		WarehouseID: r.WarehouseID,
		Date:        r.Date,
		Type:        r.Type,
		Quantity:    r.Quantity,
		UnitCost:    r.UnitCost,
		TotalCost:   r.TotalCost,
		StockBefore: r.StockBefore,
		StockAfter:  r.StockAfter,
		SourceType:  r.SourceType,
		SourceRef:   r.SourceRef,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}

// StockMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// keyWhere filtro de una cadena; warehouse_id NULL es una clave propia.
func keyWhere(key entity.MovementKey) squirrel.Sqlizer {
	if key.WarehouseID == nil {
		return squirrel.Eq{"material_id": key.MaterialID, "warehouse_id": nil}
	}
	return squirrel.Eq{"material_id": key.MaterialID, "warehouse_id": *key.WarehouseID}
}

// Create persiste el movimiento; seq y created_at los asigna la base.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	sql, args, err := psql.Insert(stockMovementsTable).
		Columns("id", "material_id", "warehouse_id", "date", "type",
			"quantity", "unit_cost", "total_cost", "stock_before", "stock_after",
			"source_type", "source_ref", "reason").
		Values(m.ID, m.MaterialID, m.WarehouseID, m.Date, m.Type,
			m.Quantity, m.UnitCost, m.TotalCost, m.StockBefore, m.StockAfter,
			m.SourceType, m.SourceRef, m.Reason).
		Suffix("RETURNING seq, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&m.Seq, &m.CreatedAt); err != nil {
		return fmt.Errorf("create stock movement: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	sql, args, err := psql.Select(stockMovementColumns...).From(stockMovementsTable).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row stockMovementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return row.entity(), nil
}

// Delete elimina un movimiento.
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock movement: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateSnapshot reescribe before/after. Si la fila ya no existe otra transacción ganó la carrera.
func (r *StockMovementRepo) UpdateSnapshot(ctx context.Context, id string, before, after decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET stock_before = $2, stock_after = $3 WHERE id = $1`,
		id, before, after)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s", domain.ErrConcurrentMutation, id)
	}
	return nil
}

func (r *StockMovementRepo) list(ctx context.Context, where ...squirrel.Sqlizer) ([]*entity.StockMovement, error) {
	q := psql.Select(stockMovementColumns...).From(stockMovementsTable).OrderBy("date", "seq")
	for _, w := range where {
		q = q.Where(w)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []stockMovementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock movements: %w", mapError(err))
	}
	out := make([]*entity.StockMovement, len(rows))
	for i, row := range rows {
		out[i] = row.entity()
	}
	return out, nil
}

// ListBySource movimientos de un documento.
func (r *StockMovementRepo) ListBySource(ctx context.Context, sourceRef string) ([]*entity.StockMovement, error) {
	return r.list(ctx, squirrel.Eq{"source_ref": sourceRef})
}

// ListFrom cadena de la clave con date >= from.
func (r *StockMovementRepo) ListFrom(ctx context.Context, key entity.MovementKey, from time.Time) ([]*entity.StockMovement, error) {
	return r.list(ctx, keyWhere(key), squirrel.GtOrEq{"date": from})
}

// SumBefore suma de cantidades de la clave con date < before.
func (r *StockMovementRepo) SumBefore(ctx context.Context, key entity.MovementKey, before time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, keyWhere(key), squirrel.Lt{"date": before})
}

// SumByMaterial stock total del material en todas las bodegas.
func (r *StockMovementRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	return r.sum(ctx, squirrel.Eq{"material_id": materialID})
}

func (r *StockMovementRepo) sum(ctx context.Context, where ...squirrel.Sqlizer) (decimal.Decimal, error) {
	q := psql.Select("COALESCE(SUM(quantity), 0)").From(stockMovementsTable)
	for _, w := range where {
		q = q.Where(w)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", mapError(err))
	}
	return sum, nil
}

type stockLevelRow struct {
	MaterialID  string          `db:"material_id"`
	WarehouseID *string         `db:"warehouse_id"`
	Quantity    decimal.Decimal `db:"quantity"`
	Movements   int             `db:"movements"`
}

// Levels saldo y número de movimientos por bodega.
func (r *StockMovementRepo) Levels(ctx context.Context, materialID string) ([]entity.StockLevel, error) {
	sql, args, err := psql.
		Select("material_id", "warehouse_id", "COALESCE(SUM(quantity), 0) AS quantity", "COUNT(*) AS movements").
		From(stockMovementsTable).
		Where(squirrel.Eq{"material_id": materialID}).
		GroupBy("material_id", "warehouse_id").
		OrderBy("warehouse_id NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []stockLevelRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock levels: %w", mapError(err))
	}
	out := make([]entity.StockLevel, len(rows))
	for i, row := range rows {
		out[i] = entity.StockLevel(row)
	}
	return out, nil
}

// ListKeys claves (material, bodega) con al menos un movimiento.
func (r *StockMovementRepo) ListKeys(ctx context.Context, materialID string) ([]entity.MovementKey, error) {
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

// LatestPurchase entrada de compra más reciente por (date, seq), o nil.
func (r *StockMovementRepo) LatestPurchase(ctx context.Context, materialID string) (*entity.StockMovement, error) {
	sql, args, err := psql.Select(stockMovementColumns...).From(stockMovementsTable).
		Where(squirrel.Eq{
			"material_id": materialID,
			"type":        entity.MovementTypeIN,
			"source_type": entity.DocumentTypePurchase,
		}).
		OrderBy("date DESC", "seq DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row stockMovementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest purchase: %w", mapError(err))
	}
	return row.entity(), nil
}

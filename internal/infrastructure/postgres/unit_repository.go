package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

type unitRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Symbol           string          `db:"symbol"`
	BaseUnitID       *string         `db:"base_unit_id"`
	ConversionFactor decimal.Decimal `db:"conversion_factor"`
}

// UnitRepo unidades de medida sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una unidad.
func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	sql, args, err := psql.Insert("units").
		Columns("id", "name", "symbol", "base_unit_id", "conversion_factor").
		Values(u.ID, u.Name, u.Symbol, u.BaseUnitID, u.ConversionFactor).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert unit: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene una unidad por ID.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	sql, args, err := psql.Select("id", "name", "symbol", "base_unit_id", "conversion_factor").
		From("units").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row unitRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	u := entity.Unit(row)
	return &u, nil
}

package inventory

import (
	"fmt"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// maxUnitHops límite de saltos hacia la unidad base (protege contra ciclos en datos maestros).
const maxUnitHops = 4

// UnitGraph grafo de unidades de solo lectura (id -> unidad) sobre el que se convierten cantidades.
type UnitGraph map[string]*entity.Unit

// NewUnitGraph construye el grafo con las unidades dadas.
func NewUnitGraph(units ...*entity.Unit) UnitGraph {
	g := make(UnitGraph, len(units))
	for _, u := range units {
		if u != nil {
			g[u.ID] = u
		}
	}
	return g
}

// Base resuelve la unidad base de unitID y el factor acumulado (cuántas unidades base vale una unidad).
func (g UnitGraph) Base(unitID string) (string, decimal.Decimal, error) {
	factor := decimal.NewFromInt(1)
	current := unitID
	for hop := 0; hop <= maxUnitHops; hop++ {
		u, ok := g[current]
		if !ok {
			return "", decimal.Zero, fmt.Errorf("%w: unidad %s", domain.ErrUnknownEntity, current)
		}
		if u.IsBase() {
			return u.ID, factor, nil
		}
		if !u.ConversionFactor.IsPositive() {
			return "", decimal.Zero, fmt.Errorf("%w: factor inválido en unidad %s", domain.ErrIncompatibleUnits, u.ID)
		}
		factor = factor.Mul(u.ConversionFactor)
		current = *u.BaseUnitID
	}
	return "", decimal.Zero, fmt.Errorf("%w: la unidad %s no llega a una unidad base", domain.ErrIncompatibleUnits, unitID)
}

// Convert convierte el par cantidad/costo unitario de fromID a toID.
// La cantidad se multiplica por factor(from)/factor(to) y el costo unitario por el recíproco;
// el costo unitario resultante se calcula como costoTotal/cantidad' para conservar q*c.
func (g UnitGraph) Convert(quantity, unitCost decimal.Decimal, fromID, toID string) (decimal.Decimal, decimal.Decimal, error) {
	fromBase, fromFactor, err := g.Base(fromID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if fromID == toID {
		return quantity, unitCost, nil
	}
	toBase, toFactor, err := g.Base(toID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if fromBase != toBase {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s (%s) -> %s (%s)", domain.ErrIncompatibleUnits, fromID, fromBase, toID, toBase)
	}
	if fromFactor.Equal(toFactor) {
		return quantity, unitCost, nil
	}

	converted := quantity.Mul(fromFactor).Div(toFactor)
	if converted.IsZero() {
		return converted, unitCost.Mul(toFactor).Div(fromFactor), nil
	}
	return converted, quantity.Mul(unitCost).Div(converted), nil
}

package entity

import "github.com/shopspring/decimal"

// Unit unidad de medida. BaseUnitID nil indica que la unidad es base.
// ConversionFactor es cuántas unidades base equivalen a una unidad (1 kg = 1000 g).
type Unit struct {
	ID               string
	Name             string
	Symbol           string
	BaseUnitID       *string
	ConversionFactor decimal.Decimal
}

// IsBase indica si la unidad es su propia base.
func (u *Unit) IsBase() bool { return u.BaseUnitID == nil || *u.BaseUnitID == u.ID }

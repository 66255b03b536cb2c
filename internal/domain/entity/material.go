package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un insumo del restaurante.
// CurrentStock, AverageCost y LastPurchasePrice son cachés derivados del ledger de movimientos;
// solo el agregador los escribe.
type Material struct {
	ID                string
	Name              string
	PurchaseUnitID    string
	ConsumptionUnitID string
	CurrentStock      decimal.Decimal // unidad de consumo, suma de todas las bodegas
	AverageCost       decimal.Decimal // unidad de consumo, costo de la última compra
	LastPurchasePrice decimal.Decimal // unidad de compra
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
	MovementTypeWASTE      = "WASTE"      // merma
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
)

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeWASTE, MovementTypeTRANSFER:
		return true
	}
	return false
}

// StockMovement es un delta de cantidad con signo dentro de la cadena de una clave (material, bodega).
// Quantity, UnitCost, TotalCost, StockBefore y StockAfter están en la unidad de consumo del material.
// StockBefore/StockAfter son snapshots cacheados; solo el ledger los escribe.
type StockMovement struct {
	ID          string
	Seq         int64 // orden de inserción; desempata movimientos con la misma fecha
	MaterialID  string
	WarehouseID *string // nil = sin control por bodega
	Date        time.Time
	Type        string
	Quantity    decimal.Decimal // positivo entrada, negativo salida
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	SourceType  string // PURCHASE, SALE, RETURN o vacío para movimientos manuales
	SourceRef   string // id del documento origen
	Reason      string
	CreatedAt   time.Time
}

// Key devuelve la clave de cadena del movimiento.
func (m *StockMovement) Key() MovementKey {
	return MovementKey{MaterialID: m.MaterialID, WarehouseID: m.WarehouseID}
}

// Delta implementa ChainEntry.
func (m *StockMovement) Delta() decimal.Decimal { return m.Quantity }

// Snapshot implementa ChainEntry.
func (m *StockMovement) Snapshot() (before, after decimal.Decimal) {
	return m.StockBefore, m.StockAfter
}

// SetSnapshot implementa ChainEntry.
func (m *StockMovement) SetSnapshot(before, after decimal.Decimal) {
	m.StockBefore, m.StockAfter = before, after
}

// IsPurchaseIn indica si el movimiento es una entrada originada en una compra.
func (m *StockMovement) IsPurchaseIn() bool {
	return m.Type == MovementTypeIN && m.SourceType == DocumentTypePurchase
}

// MovementKey identifica una cadena de movimientos.
type MovementKey struct {
	MaterialID  string
	WarehouseID *string
}

// String representación estable para bloqueos y logs.
func (k MovementKey) String() string {
	wh := "-"
	if k.WarehouseID != nil {
		wh = *k.WarehouseID
	}
	return "movement:" + k.MaterialID + ":" + wh
}

// Equal compara claves (incluye el caso sin bodega).
func (k MovementKey) Equal(o MovementKey) bool {
	if k.MaterialID != o.MaterialID {
		return false
	}
	if k.WarehouseID == nil || o.WarehouseID == nil {
		return k.WarehouseID == nil && o.WarehouseID == nil
	}
	return *k.WarehouseID == *o.WarehouseID
}

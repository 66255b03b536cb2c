package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento origen (factura).
const (
	DocumentTypePurchase = "PURCHASE" // compra a proveedor: entrada de stock, DEBT en cuenta
	DocumentTypeSale     = "SALE"     // consumo/venta: salida de stock
	DocumentTypeReturn   = "RETURN"   // devolución a proveedor: salida de stock, CREDIT en cuenta
)

// Tipos de mutación sobre un documento.
const (
	MutationCreate = "CREATE"
	MutationEdit   = "EDIT"
	MutationDelete = "DELETE"
)

// ValidDocumentType indica si t es un tipo de documento conocido.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypePurchase, DocumentTypeSale, DocumentTypeReturn:
		return true
	}
	return false
}

// DocumentLine línea tipada de una factura. Quantity y UnitPrice están en UnitID;
// si UnitID está vacío se asume la unidad de compra del material.
type DocumentLine struct {
	MaterialID  string
	WarehouseID *string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitID      string
}

// Total devuelve Quantity * UnitPrice.
func (l DocumentLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// DocumentMutation describe una creación, edición o borrado de factura.
type DocumentMutation struct {
	DocumentID       string
	Kind             string // CREATE, EDIT, DELETE
	Type             string // PURCHASE, SALE, RETURN
	Date             time.Time
	CounterpartyID   string // proveedor o cliente; vacío = sin cuenta corriente
	CounterpartyName string
	Description      string
	Lines            []DocumentLine
}

// Total suma los totales de línea.
func (d DocumentMutation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// MaterialAggregate valores cacheados de un material tras una mutación.
type MaterialAggregate struct {
	MaterialID        string
	CurrentStock      decimal.Decimal
	AverageCost       decimal.Decimal
	LastPurchasePrice decimal.Decimal
}

// AggregateUpdateResult resultado de aplicar una mutación de documento.
type AggregateUpdateResult struct {
	DocumentID         string
	Kind               string
	Movements          []*StockMovement
	RetractedMovements int
	AccountTransaction *CurrentAccountTransaction
	Account            *CurrentAccount
	Materials          []MaterialAggregate
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de contraparte de una cuenta corriente.
const (
	CounterpartySupplier = "SUPPLIER"
	CounterpartyCustomer = "CUSTOMER"
)

// CurrentAccount cuenta corriente de un proveedor o cliente.
// CurrentBalance es caché: BalanceAfter de la última transacción de la cadena, u OpeningBalance si está vacía.
type CurrentAccount struct {
	ID               string
	CounterpartyID   string
	CounterpartyType string
	Name             string
	OpeningBalance   decimal.Decimal
	CurrentBalance   decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

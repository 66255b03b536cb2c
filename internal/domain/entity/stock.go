package entity

import "github.com/shopspring/decimal"

// StockLevel es el saldo derivado de una cadena (material, bodega): suma de cantidades
// y snapshot del último movimiento. Nunca se persiste como fuente de verdad.
type StockLevel struct {
	MaterialID  string
	WarehouseID *string
	Quantity    decimal.Decimal
	Movements   int
}

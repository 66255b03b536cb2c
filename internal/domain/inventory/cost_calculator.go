package inventory

import (
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CostCalculator política de costo del material: último costo de compra, no promedio ponderado.
// AverageCost toma el costo unitario (unidad de consumo) de la última línea de compra que lo dispara;
// cualquier otro movimiento deja el costo intacto.
func CostCalculator(current decimal.Decimal, mov *entity.StockMovement) decimal.Decimal {
	if mov == nil || !mov.IsPurchaseIn() {
		return current
	}
	return mov.UnitCost
}

// LatestPurchase devuelve el movimiento de compra más reciente por (fecha, secuencia), o nil.
func LatestPurchase(movements []*entity.StockMovement) *entity.StockMovement {
	var latest *entity.StockMovement
	for _, m := range movements {
		if !m.IsPurchaseIn() {
			continue
		}
		if latest == nil || Before(latest.Date, latest.Seq, m.Date, m.Seq) {
			latest = m
		}
	}
	return latest
}

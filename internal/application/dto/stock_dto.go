package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// MovementDTO movimiento de la cadena (material, bodega), en unidad de consumo.
type MovementDTO struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	WarehouseID *string         `json:"warehouse_id,omitempty"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	SourceType  string          `json:"source_type,omitempty"`
	SourceRef   string          `json:"source_ref,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// NewMovementDTOs convierte movimientos de dominio.
func NewMovementDTOs(ms []*entity.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, MovementDTO{
			ID:          m.ID,
			MaterialID:  m.MaterialID,
			WarehouseID: m.WarehouseID,
			Date:        m.Date,
			Type:        m.Type,
			Quantity:    m.Quantity,
			UnitCost:    m.UnitCost,
			TotalCost:   m.TotalCost,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			SourceType:  m.SourceType,
			SourceRef:   m.SourceRef,
			Reason:      m.Reason,
		})
	}
	return out
}

// StockLevelDTO saldo de una cadena.
type StockLevelDTO struct {
	WarehouseID *string         `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Movements   int             `json:"movements"`
}

// StockResponse respuesta de GET /api/materials/:id/stock.
type StockResponse struct {
	MaterialID  string          `json:"material_id"`
	WarehouseID *string         `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Levels      []StockLevelDTO `json:"levels,omitempty"`
}

// NewStockLevelDTOs convierte saldos por bodega.
func NewStockLevelDTOs(levels []entity.StockLevel) []StockLevelDTO {
	out := make([]StockLevelDTO, 0, len(levels))
	for _, l := range levels {
		out = append(out, StockLevelDTO{WarehouseID: l.WarehouseID, Quantity: l.Quantity, Movements: l.Movements})
	}
	return out
}

// MovementsResponse página de la cadena de movimientos.
type MovementsResponse struct {
	Items []MovementDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}

// RebuildMaterialResponse resultado de la reconstrucción de un material.
type RebuildMaterialResponse struct {
	MaterialID string               `json:"material_id"`
	Keys       int                  `json:"keys"`
	Rewritten  int                  `json:"rewritten"`
	Aggregate  MaterialAggregateDTO `json:"aggregate"`
}

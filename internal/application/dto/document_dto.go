package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// DocumentLineRequest línea de factura. quantity y unit_price en unit_id (vacío = unidad de compra).
type DocumentLineRequest struct {
	MaterialID  string          `json:"material_id"`
	WarehouseID *string         `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitID      string          `json:"unit_id,omitempty"`
}

// DocumentRequest body para POST /api/documents y PUT /api/documents/:id.
type DocumentRequest struct {
	DocumentID       string                `json:"document_id,omitempty"`
	Type             string                `json:"type"`
	Date             time.Time             `json:"date"`
	CounterpartyID   string                `json:"counterparty_id,omitempty"`
	CounterpartyName string                `json:"counterparty_name,omitempty"`
	Description      string                `json:"description,omitempty"`
	Lines            []DocumentLineRequest `json:"lines"`
}

// ToMutation arma la mutación de dominio. id tiene prioridad sobre DocumentID del body.
func (r DocumentRequest) ToMutation(kind, id string) entity.DocumentMutation {
	if id == "" {
		id = r.DocumentID
	}
	lines := make([]entity.DocumentLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, entity.DocumentLine{
			MaterialID:  l.MaterialID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitID:      l.UnitID,
		})
	}
	return entity.DocumentMutation{
		DocumentID:       id,
		Kind:             kind,
		Type:             r.Type,
		Date:             r.Date,
		CounterpartyID:   r.CounterpartyID,
		CounterpartyName: r.CounterpartyName,
		Description:      r.Description,
		Lines:            lines,
	}
}

// MaterialAggregateDTO valores cacheados del material tras la mutación.
type MaterialAggregateDTO struct {
	MaterialID        string          `json:"material_id"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
}

// DocumentResponse resultado de aplicar una mutación de factura.
type DocumentResponse struct {
	DocumentID         string                 `json:"document_id"`
	Kind               string                 `json:"kind"`
	Movements          []MovementDTO          `json:"movements"`
	RetractedMovements int                    `json:"retracted_movements"`
	Transaction        *TransactionDTO        `json:"transaction,omitempty"`
	Account            *AccountDTO            `json:"account,omitempty"`
	Materials          []MaterialAggregateDTO `json:"materials"`
}

// NewDocumentResponse convierte el resultado del orquestador.
func NewDocumentResponse(r *entity.AggregateUpdateResult) DocumentResponse {
	out := DocumentResponse{
		DocumentID:         r.DocumentID,
		Kind:               r.Kind,
		Movements:          NewMovementDTOs(r.Movements),
		RetractedMovements: r.RetractedMovements,
		Materials:          make([]MaterialAggregateDTO, 0, len(r.Materials)),
	}
	if r.AccountTransaction != nil {
		tx := NewTransactionDTO(r.AccountTransaction)
		out.Transaction = &tx
	}
	if r.Account != nil {
		acc := NewAccountDTO(r.Account)
		out.Account = &acc
	}
	for _, m := range r.Materials {
		out.Materials = append(out.Materials, MaterialAggregateDTO(m))
	}
	return out
}

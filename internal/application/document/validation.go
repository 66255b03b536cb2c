package document

import (
	"fmt"

	"github.com/jhoicas/Backoffice-ledger/internal/domain"
	"github.com/jhoicas/Backoffice-ledger/internal/domain/entity"
)

// Validate comprueba la mutación antes de entrar al orquestador.
// En DELETE las líneas se ignoran y el tipo es opcional.
func Validate(in entity.DocumentMutation) error {
	if in.DocumentID == "" {
		return invalid("document_id requerido")
	}
	switch in.Kind {
	case entity.MutationCreate, entity.MutationEdit:
	case entity.MutationDelete:
		if in.Type != "" && !entity.ValidDocumentType(in.Type) {
			return invalid("tipo de documento desconocido: %s", in.Type)
		}
		return nil
	default:
		return invalid("tipo de mutación desconocido: %s", in.Kind)
	}

	if !entity.ValidDocumentType(in.Type) {
		return invalid("tipo de documento desconocido: %s", in.Type)
	}
	if in.Date.IsZero() {
		return invalid("fecha requerida")
	}
	if len(in.Lines) == 0 {
		return invalid("el documento no tiene líneas")
	}
	for i, l := range in.Lines {
		if err := validateLine(l); err != nil {
			return fmt.Errorf("línea %d: %w", i+1, err)
		}
	}
	return nil
}

func validateLine(l entity.DocumentLine) error {
	if l.MaterialID == "" {
		return invalid("material_id requerido")
	}
	if l.WarehouseID != nil && *l.WarehouseID == "" {
		return invalid("warehouse_id vacío")
	}
	if !l.Quantity.IsPositive() {
		return invalid("la cantidad debe ser positiva")
	}
	if l.UnitPrice.IsNegative() {
		return invalid("el precio unitario no puede ser negativo")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

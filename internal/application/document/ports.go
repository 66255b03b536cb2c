package document

import "context"

// RecipeCostTrigger colaborador externo que recalcula el costo de las recetas que usan el material.
type RecipeCostTrigger interface {
	TriggerRecipeCost(ctx context.Context, materialID string) error
}

// Dispatcher encola disparos de costo de recetas fuera de la transacción.
type Dispatcher interface {
	Dispatch(materialIDs ...string)
}

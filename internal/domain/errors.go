package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrUnknownEntity: el movimiento o transacción referencia un material, bodega,
	// unidad o cuenta inexistente. No reintentable; la mutación se rechaza antes de escribir.
	ErrUnknownEntity = errors.New("entidad referenciada inexistente")
	// ErrIncompatibleUnits: las unidades no comparten unidad base.
	ErrIncompatibleUnits = errors.New("unidades incompatibles")
	// ErrConcurrentMutation: se perdió el bloqueo de la clave durante el recálculo.
	// Reintentable desde la retracción.
	ErrConcurrentMutation = errors.New("mutación concurrente sobre la misma clave")
	// ErrPropagationFailure: falló el disparador de costo de recetas. Solo se registra.
	ErrPropagationFailure = errors.New("falló la propagación de costo de recetas")
)

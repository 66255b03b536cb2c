package entity

import "time"

// Warehouse representa una bodega o cocina de una sucursal.
type Warehouse struct {
	ID        string
	BranchID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package entity

import "time"

// Location representa una bodega o sucursal donde se almacena inventario.
// Una bodega inactiva rechaza nuevas asignaciones y recepciones, pero sus
// lotes históricos siguen siendo consultables.
type Location struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

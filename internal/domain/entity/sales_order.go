package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus estados del ciclo de vida de una orden de venta.
// DRAFT → CONFIRMED → FULFILLED; DRAFT|CONFIRMED → CANCELLED.
// FULFILLED y CANCELLED son terminales.
type SalesOrderStatus string

const (
	SalesOrderDraft     SalesOrderStatus = "DRAFT"
	SalesOrderConfirmed SalesOrderStatus = "CONFIRMED"
	SalesOrderFulfilled SalesOrderStatus = "FULFILLED"
	SalesOrderCancelled SalesOrderStatus = "CANCELLED"
)

// CanConfirm indica si la orden admite confirmación.
func (s SalesOrderStatus) CanConfirm() bool { return s == SalesOrderDraft }

// CanFulfill indica si la orden admite despacho.
func (s SalesOrderStatus) CanFulfill() bool { return s == SalesOrderConfirmed }

// CanCancel indica si la orden admite cancelación.
func (s SalesOrderStatus) CanCancel() bool {
	return s == SalesOrderDraft || s == SalesOrderConfirmed
}

// SalesOrder orden de venta con sus líneas.
// DocNumber es un número legible derivado de una secuencia monótona del
// ledger; nunca se genera desde el reloj de pared.
type SalesOrder struct {
	ID         string
	DocNumber  string
	CustomerID string
	LocationID string
	Status     SalesOrderStatus
	Notes      string
	Lines      []SalesOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SalesOrderLine línea de orden de venta. UnitPrice es snapshot del precio
// del producto al crear la orden; cambios posteriores del precio no la afectan.
// AllocatedQty registra lo asignado en la confirmación para poder liberarlo
// en una cancelación.
type SalesOrderLine struct {
	ID           string
	OrderID      string
	ProductID    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	AllocatedQty decimal.Decimal
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estados de una orden de compra.
// La recepción parcial es un estado persistente válido.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderCancelled         PurchaseOrderStatus = "CANCELLED"
)

// CanReceive indica si la orden admite recepciones.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderDraft || s == PurchaseOrderPartiallyReceived
}

// CanCancel indica si la orden admite cancelación (sin recepciones aplicadas).
func (s PurchaseOrderStatus) CanCancel() bool { return s == PurchaseOrderDraft }

// PurchaseOrder orden de compra entrante.
type PurchaseOrder struct {
	ID         string
	DocNumber  string
	SupplierID string
	LocationID string // bodega destino de la recepción
	Status     PurchaseOrderStatus
	Notes      string
	Lines      []PurchaseOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderLine línea de compra; ReceivedQty acumula lo recibido.
// La orden queda RECEIVED cuando toda línea cumple ReceivedQty == Quantity.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	ReceivedQty decimal.Decimal
}

// FullyReceived indica si todas las líneas están completamente recibidas.
func (o *PurchaseOrder) FullyReceived() bool {
	for i := range o.Lines {
		if o.Lines[i].ReceivedQty.LessThan(o.Lines[i].Quantity) {
			return false
		}
	}
	return true
}

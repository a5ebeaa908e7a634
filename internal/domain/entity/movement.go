package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind es el tipo cerrado de movimiento de inventario.
// Valores fuera del conjunto se rechazan en el borde, no se almacenan.
type MovementKind string

const (
	MovementIN          MovementKind = "IN"           // recepción de compra / entrada
	MovementOUT         MovementKind = "OUT"          // salida por venta
	MovementADJUST      MovementKind = "ADJUST"       // ajuste manual o de auditoría
	MovementTransferIn  MovementKind = "TRANSFER_IN"  // entrada por traslado
	MovementTransferOut MovementKind = "TRANSFER_OUT" // salida por traslado
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementIN, MovementOUT, MovementADJUST, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

// ReferenceType identifica la causa de un movimiento (tipo cerrado).
type ReferenceType string

const (
	RefSalesOrder    ReferenceType = "SALES_ORDER"
	RefPurchaseOrder ReferenceType = "PURCHASE_ORDER"
	RefTransfer      ReferenceType = "TRANSFER"
	RefAdjustment    ReferenceType = "ADJUSTMENT"
	RefOpname        ReferenceType = "OPNAME"
)

// Valid indica si la referencia pertenece al conjunto cerrado.
func (r ReferenceType) Valid() bool {
	switch r {
	case RefSalesOrder, RefPurchaseOrder, RefTransfer, RefAdjustment, RefOpname:
		return true
	}
	return false
}

// Movement es una entrada inmutable del libro de movimientos (append-only).
// Nunca se actualiza ni se borra; la suma de Quantity por producto+bodega
// debe igualar el agregado actual de QtyOnHand (propiedad de reconstrucción).
type Movement struct {
	ID            string
	ProductID     string
	LocationID    string
	BatchID       string // lote afectado; vacío en movimientos sin lote identificable
	Quantity      decimal.Decimal // con signo: positivo entrada, negativo salida
	Kind          MovementKind
	ReferenceType ReferenceType
	ReferenceID   string
	ActorID       string
	Note          string
	CreatedAt     time.Time
}

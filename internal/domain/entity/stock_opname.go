package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpnameStatus estados de un conteo físico (stock opname).
// DRAFT → IN_PROGRESS → COMPLETED; todo estado previo a COMPLETED → CANCELLED.
type OpnameStatus string

const (
	OpnameDraft      OpnameStatus = "DRAFT"
	OpnameInProgress OpnameStatus = "IN_PROGRESS"
	OpnameCompleted  OpnameStatus = "COMPLETED"
	OpnameCancelled  OpnameStatus = "CANCELLED"
)

// CanRecordCount indica si el opname admite registrar conteos.
func (s OpnameStatus) CanRecordCount() bool { return s == OpnameInProgress }

// CanComplete indica si el opname admite completarse.
func (s OpnameStatus) CanComplete() bool { return s == OpnameInProgress }

// CanCancel indica si el opname admite cancelación.
func (s OpnameStatus) CanCancel() bool {
	return s == OpnameDraft || s == OpnameInProgress
}

// StockOpname conteo físico de una bodega. Al iniciarlo se congela el
// SystemQty de cada producto; al completarlo, cada diferencia no nula genera
// un StockAdjustment con razón AUDIT.
type StockOpname struct {
	ID         string
	DocNumber  string
	LocationID string
	Status     OpnameStatus
	Notes      string
	Items      []OpnameItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OpnameItem renglón de conteo. ActualQty es nil hasta que alguien cuenta;
// un ítem nunca contado se omite al completar, no se trata como cero.
type OpnameItem struct {
	ID         string
	OpnameID   string
	ProductID  string
	SystemQty  decimal.Decimal  // snapshot del sistema al iniciar
	ActualQty  *decimal.Decimal // nil = sin contar
	Difference decimal.Decimal  // ActualQty - SystemQty (0 mientras no haya conteo)
	CountedAt  *time.Time
}

// Counted indica si el ítem ya tiene conteo registrado.
func (i *OpnameItem) Counted() bool { return i.ActualQty != nil }

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentDirection sentido de un ajuste manual.
type AdjustmentDirection string

const (
	AdjustmentIncrease AdjustmentDirection = "increase"
	AdjustmentDecrease AdjustmentDirection = "decrease"
)

// Valid indica si la dirección pertenece al conjunto cerrado.
func (d AdjustmentDirection) Valid() bool {
	return d == AdjustmentIncrease || d == AdjustmentDecrease
}

// Opposite devuelve la dirección espejo (para reversas).
func (d AdjustmentDirection) Opposite() AdjustmentDirection {
	if d == AdjustmentIncrease {
		return AdjustmentDecrease
	}
	return AdjustmentIncrease
}

// AdjustmentReason razón cerrada de un ajuste. Valores libres se rechazan
// en el borde, no se almacenan.
type AdjustmentReason string

const (
	ReasonAudit      AdjustmentReason = "AUDIT" // generado por conteo físico (opname)
	ReasonDamaged    AdjustmentReason = "DAMAGED"
	ReasonLost       AdjustmentReason = "LOST"
	ReasonExpired    AdjustmentReason = "EXPIRED"
	ReasonCorrection AdjustmentReason = "CORRECTION"
	ReasonOther      AdjustmentReason = "OTHER"
)

// Valid indica si la razón pertenece al conjunto cerrado.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonAudit, ReasonDamaged, ReasonLost, ReasonExpired, ReasonCorrection, ReasonOther:
		return true
	}
	return false
}

// StockAdjustment corrección manual con signo. Una reversa crea el ajuste
// espejo referenciando el original; el original nunca se edita ni se borra.
type StockAdjustment struct {
	ID           string
	DocNumber    string
	ProductID    string
	LocationID   string
	Direction    AdjustmentDirection
	Quantity     decimal.Decimal // siempre positiva; el sentido lo da Direction
	Reason       AdjustmentReason
	Note         string
	ReversalOfID string // ID del ajuste original si este es una reversa
	ReversedByID string // ID de la reversa si este ajuste ya fue reversado
	CreatedBy    string
	CreatedAt    time.Time
}

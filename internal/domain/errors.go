package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInvalidState        = errors.New("transición de estado inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvariantViolation  = errors.New("invariante de inventario violada")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
	ErrLocationInactive    = errors.New("bodega inactiva")
	ErrAlreadyReversed     = errors.New("el ajuste ya fue reversado")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// qué producto, en qué bodega, cuánto se pidió y cuánto había.
// Envuelve ErrInsufficientStock para poder usar errors.Is en los handlers.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en bodega %s, requerido %s, disponible %s",
		e.ProductID, e.LocationID, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NewInsufficientStock construye el error tipado.
func NewInsufficientStock(productID, locationID string, required, available decimal.Decimal) error {
	return &InsufficientStockError{
		ProductID:  productID,
		LocationID: locationID,
		Required:   required,
		Available:  available,
	}
}

// InvalidStateError detalla una transición de estado rechazada. Envuelve ErrInvalidState.
type InvalidStateError struct {
	Entity string
	From   string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("transición inválida: %s en estado %s no admite %s", e.Entity, e.From, e.Action)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// NewInvalidState construye el error tipado de transición.
func NewInvalidState(entity, from, action string) error {
	return &InvalidStateError{Entity: entity, From: from, Action: action}
}

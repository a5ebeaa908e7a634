package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
)

// StockBatch es la unidad de verdad de cantidades: un lote de un producto
// recibido en una bodega en un momento dado. La selección FIFO opera sobre
// lotes ordenados por (ReceivedAt, Seq).
//
// Invariantes: AvailableQty == QtyOnHand - AllocatedQty; QtyOnHand >= 0;
// AllocatedQty >= 0. Bajo política estricta además AllocatedQty <= QtyOnHand.
// Los lotes con cantidad cero se conservan para auditoría, nunca se borran.
type StockBatch struct {
	ID           string
	Seq          int64 // orden de inserción; desempate determinista del FIFO
	ProductID    string
	LocationID   string
	QtyOnHand    decimal.Decimal
	AllocatedQty decimal.Decimal
	AvailableQty decimal.Decimal
	ReceivedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStockBatch crea un lote vacío para producto+bodega con fecha de recepción.
func NewStockBatch(productID, locationID string, receivedAt time.Time) *StockBatch {
	return &StockBatch{
		ProductID:    productID,
		LocationID:   locationID,
		QtyOnHand:    decimal.Zero,
		AllocatedQty: decimal.Zero,
		AvailableQty: decimal.Zero,
		ReceivedAt:   receivedAt,
		CreatedAt:    receivedAt,
		UpdatedAt:    receivedAt,
	}
}

// Recalc recomputa AvailableQty = QtyOnHand - AllocatedQty.
// Toda mutación de cantidades debe terminar con Recalc, nunca con una
// sobrescritura directa de AvailableQty.
func (b *StockBatch) Recalc() {
	b.AvailableQty = b.QtyOnHand.Sub(b.AllocatedQty)
}

// CheckInvariant valida las invariantes del lote después de una mutación.
// allowOvercommit permite AllocatedQty > QtyOnHand (sobre-asignación en la
// confirmación de órdenes); el resto de invariantes aplica siempre.
func (b *StockBatch) CheckInvariant(allowOvercommit bool) error {
	if b.QtyOnHand.IsNegative() {
		return domain.ErrInvariantViolation
	}
	if b.AllocatedQty.IsNegative() {
		return domain.ErrInvariantViolation
	}
	if !b.AvailableQty.Equal(b.QtyOnHand.Sub(b.AllocatedQty)) {
		return domain.ErrInvariantViolation
	}
	if !allowOvercommit && b.AllocatedQty.GreaterThan(b.QtyOnHand) {
		return domain.ErrInvariantViolation
	}
	return nil
}

// StockLevel es el agregado de cantidades de un producto
// (en una bodega o global, según la consulta).
type StockLevel struct {
	ProductID  string
	LocationID string // vacío = agregado global
	OnHand     decimal.Decimal
	Allocated  decimal.Decimal
	Available  decimal.Decimal
}

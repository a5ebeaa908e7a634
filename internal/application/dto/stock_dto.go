package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// StockLevelResponse agregado de cantidades de un producto.
type StockLevelResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id,omitempty"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Allocated  decimal.Decimal `json:"allocated"`
	Available  decimal.Decimal `json:"available"`
}

// ToStockLevelResponse convierte el agregado al DTO.
func ToStockLevelResponse(l *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:  l.ProductID,
		LocationID: l.LocationID,
		OnHand:     l.OnHand,
		Allocated:  l.Allocated,
		Available:  l.Available,
	}
}

// StockBatchResponse lote individual en orden FIFO.
type StockBatchResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	QtyOnHand    decimal.Decimal `json:"qty_on_hand"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	ReceivedAt   time.Time       `json:"received_at"`
}

// ToStockBatchResponse convierte el lote al DTO.
func ToStockBatchResponse(b *entity.StockBatch) StockBatchResponse {
	return StockBatchResponse{
		ID:           b.ID,
		ProductID:    b.ProductID,
		LocationID:   b.LocationID,
		QtyOnHand:    b.QtyOnHand,
		AllocatedQty: b.AllocatedQty,
		AvailableQty: b.AvailableQty,
		ReceivedAt:   b.ReceivedAt,
	}
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	BatchID       string          `json:"batch_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Kind          string          `json:"kind"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	ActorID       string          `json:"actor_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMovementResponse convierte el movimiento al DTO.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		BatchID:       m.BatchID,
		Quantity:      m.Quantity,
		Kind:          string(m.Kind),
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		ActorID:       m.ActorID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

// LowStockItemResponse fila de la lista de reposición.
type LowStockItemResponse struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Threshold decimal.Decimal `json:"threshold"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Available decimal.Decimal `json:"available"`
}

// ToLowStockItemResponse convierte el ítem al DTO.
func ToLowStockItemResponse(it *entity.LowStockItem) LowStockItemResponse {
	return LowStockItemResponse{
		ProductID: it.ProductID,
		SKU:       it.SKU,
		Name:      it.Name,
		Threshold: it.Threshold,
		OnHand:    it.OnHand,
		Available: it.Available,
	}
}

// ApplyAdjustmentRequest body para POST /api/adjustments.
type ApplyAdjustmentRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Direction  string          `json:"direction" validate:"required,oneof=increase decrease"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason" validate:"required,oneof=AUDIT DAMAGED LOST EXPIRED CORRECTION OTHER"`
	Note       string          `json:"note,omitempty"`
}

// AdjustmentResponse representación HTTP de un ajuste.
type AdjustmentResponse struct {
	ID           string          `json:"id"`
	DocNumber    string          `json:"doc_number"`
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	Direction    string          `json:"direction"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	Note         string          `json:"note,omitempty"`
	ReversalOfID string          `json:"reversal_of_id,omitempty"`
	ReversedByID string          `json:"reversed_by_id,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToAdjustmentResponse convierte el ajuste al DTO.
func ToAdjustmentResponse(a *entity.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:           a.ID,
		DocNumber:    a.DocNumber,
		ProductID:    a.ProductID,
		LocationID:   a.LocationID,
		Direction:    string(a.Direction),
		Quantity:     a.Quantity,
		Reason:       string(a.Reason),
		Note:         a.Note,
		ReversalOfID: a.ReversalOfID,
		ReversedByID: a.ReversedByID,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
	}
}

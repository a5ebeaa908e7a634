package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// ─── Órdenes de venta ─────────────────────────────────────────────────────

// OrderLineRequest línea solicitada al crear una orden de venta.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	LocationID string             `json:"location_id" validate:"required"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes      string             `json:"notes,omitempty"`
}

// SalesOrderLineResponse línea de orden con precio congelado.
type SalesOrderLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
}

// SalesOrderResponse representación HTTP de una orden de venta.
type SalesOrderResponse struct {
	ID         string                   `json:"id"`
	DocNumber  string                   `json:"doc_number"`
	CustomerID string                   `json:"customer_id"`
	LocationID string                   `json:"location_id"`
	Status     string                   `json:"status"`
	Notes      string                   `json:"notes,omitempty"`
	Lines      []SalesOrderLineResponse `json:"lines"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// ToSalesOrderResponse convierte la orden al DTO.
func ToSalesOrderResponse(o *entity.SalesOrder) SalesOrderResponse {
	resp := SalesOrderResponse{
		ID:         o.ID,
		DocNumber:  o.DocNumber,
		CustomerID: o.CustomerID,
		LocationID: o.LocationID,
		Status:     string(o.Status),
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, SalesOrderLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			AllocatedQty: l.AllocatedQty,
		})
	}
	return resp
}

// ─── Órdenes de compra ────────────────────────────────────────────────────

// PurchaseLineRequest línea pedida al proveedor.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	LocationID string                `json:"location_id" validate:"required"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes      string                `json:"notes,omitempty"`
}

// ReceiveLineRequest cantidad recibida contra una línea.
type ReceiveLineRequest struct {
	LineID   string          `json:"line_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceivePurchaseRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineResponse línea de compra con lo acumulado recibido.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// PurchaseOrderResponse representación HTTP de una orden de compra.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	DocNumber  string                      `json:"doc_number"`
	SupplierID string                      `json:"supplier_id"`
	LocationID string                      `json:"location_id"`
	Status     string                      `json:"status"`
	Notes      string                      `json:"notes,omitempty"`
	Lines      []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse convierte la orden al DTO.
func ToPurchaseOrderResponse(o *entity.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:         o.ID,
		DocNumber:  o.DocNumber,
		SupplierID: o.SupplierID,
		LocationID: o.LocationID,
		Status:     string(o.Status),
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, PurchaseOrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			ReceivedQty: l.ReceivedQty,
		})
	}
	return resp
}

// ─── Traslados ────────────────────────────────────────────────────────────

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id" validate:"required"`
	ToLocationID   string                `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Lines          []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes          string                `json:"notes,omitempty"`
}

// TransferLineResponse línea de traslado.
type TransferLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse representación HTTP de un traslado.
type TransferResponse struct {
	ID             string                 `json:"id"`
	DocNumber      string                 `json:"doc_number"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	Lines          []TransferLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToTransferResponse convierte el traslado al DTO.
func ToTransferResponse(t *entity.StockTransfer) TransferResponse {
	resp := TransferResponse{
		ID:             t.ID,
		DocNumber:      t.DocNumber,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         string(t.Status),
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, l := range t.Lines {
		resp.Lines = append(resp.Lines, TransferLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return resp
}

// ─── Conteos físicos ──────────────────────────────────────────────────────

// StartOpnameRequest body para POST /api/opnames.
type StartOpnameRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	Notes      string `json:"notes,omitempty"`
}

// SaveCountRequest body para PUT /api/opnames/:id/items/:itemId.
type SaveCountRequest struct {
	ActualQty decimal.Decimal `json:"actual_qty"`
}

// OpnameItemResponse renglón de conteo.
type OpnameItemResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	SystemQty  decimal.Decimal  `json:"system_qty"`
	ActualQty  *decimal.Decimal `json:"actual_qty,omitempty"`
	Difference decimal.Decimal  `json:"difference"`
	CountedAt  *time.Time       `json:"counted_at,omitempty"`
}

// OpnameResponse representación HTTP de un conteo físico.
type OpnameResponse struct {
	ID         string               `json:"id"`
	DocNumber  string               `json:"doc_number"`
	LocationID string               `json:"location_id"`
	Status     string               `json:"status"`
	Notes      string               `json:"notes,omitempty"`
	Items      []OpnameItemResponse `json:"items"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ToOpnameItemResponse convierte el renglón al DTO.
func ToOpnameItemResponse(it *entity.OpnameItem) OpnameItemResponse {
	return OpnameItemResponse{
		ID:         it.ID,
		ProductID:  it.ProductID,
		SystemQty:  it.SystemQty,
		ActualQty:  it.ActualQty,
		Difference: it.Difference,
		CountedAt:  it.CountedAt,
	}
}

// ToOpnameResponse convierte el conteo al DTO.
func ToOpnameResponse(o *entity.StockOpname) OpnameResponse {
	resp := OpnameResponse{
		ID:         o.ID,
		DocNumber:  o.DocNumber,
		LocationID: o.LocationID,
		Status:     string(o.Status),
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for i := range o.Items {
		resp.Items = append(resp.Items, ToOpnameItemResponse(&o.Items[i]))
	}
	return resp
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estados de un traslado entre bodegas.
// DRAFT → IN_TRANSIT → COMPLETED; DRAFT|IN_TRANSIT → CANCELLED.
type TransferStatus string

const (
	TransferDraft     TransferStatus = "DRAFT"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// CanDispatch indica si el traslado admite despacho.
func (s TransferStatus) CanDispatch() bool { return s == TransferDraft }

// CanComplete indica si el traslado admite completarse.
func (s TransferStatus) CanComplete() bool { return s == TransferInTransit }

// CanCancel indica si el traslado admite cancelación.
func (s TransferStatus) CanCancel() bool {
	return s == TransferDraft || s == TransferInTransit
}

// StockTransfer traslado de cantidades entre dos bodegas. Completarlo ejecuta
// la deducción FIFO en origen y crea lotes nuevos en destino, atómicamente.
type StockTransfer struct {
	ID             string
	DocNumber      string
	FromLocationID string
	ToLocationID   string
	Status         TransferStatus
	Notes          string
	Lines          []StockTransferLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockTransferLine línea de traslado.
type StockTransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   decimal.Decimal
}

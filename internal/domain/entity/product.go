package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock se maneja por lote en StockBatch; aquí solo metadatos.
// Price y LowStockThreshold son editables; el resto es inmutable una vez
// que existen movimientos que lo referencian.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	Description       string
	UnitMeasure       string
	Price             decimal.Decimal // precio de venta vigente (las líneas de orden guardan snapshot)
	LowStockThreshold decimal.Decimal // umbral para la lista de reposición
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

package entity

import "github.com/shopspring/decimal"

// LowStockItem fila de la lista de reposición: producto cuyo stock global
// quedó en o por debajo de su umbral.
type LowStockItem struct {
	ProductID string
	SKU       string
	Name      string
	Threshold decimal.Decimal
	OnHand    decimal.Decimal
	Available decimal.Decimal
}

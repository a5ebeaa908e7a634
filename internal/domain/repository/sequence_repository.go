package repository

import "context"

// Nombres de las secuencias de documentos que posee el ledger.
// Los números legibles (SO-000001, ...) se derivan de aquí; nunca del reloj.
const (
	SeqSalesOrder    = "sales_order"
	SeqPurchaseOrder = "purchase_order"
	SeqTransfer      = "transfer"
	SeqAdjustment    = "adjustment"
	SeqOpname        = "opname"
)

// SequenceRepository entrega valores monótonos por secuencia nombrada.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

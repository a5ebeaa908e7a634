package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// Repos agrupa los puertos de persistencia atados a una misma transacción.
// TxRunner entrega una instancia por Run; fuera de Run los casos de uso solo
// deben usar repos de lectura.
type Repos struct {
	Batches        repository.StockBatchRepository
	Movements      repository.MovementRepository
	Products       repository.ProductRepository
	Locations      repository.LocationRepository
	SalesOrders    repository.SalesOrderRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Transfers      repository.TransferRepository
	Adjustments    repository.AdjustmentRepository
	Opnames        repository.OpnameRepository
	Sequences      repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con rollback ante
// cualquier error. Garantiza el todo-o-nada de cada operación del ledger:
// jamás queda aplicada media orden, medio traslado o medio conteo.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con todos
// los repositorios del ledger atados a la misma tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos ata todos los repositorios a un Querier (pool o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Batches:        NewStockBatchRepository(q),
		Movements:      NewMovementRepository(q),
		Products:       NewProductRepository(q),
		Locations:      NewLocationRepository(q),
		SalesOrders:    NewSalesOrderRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Transfers:      NewTransferRepository(q),
		Adjustments:    NewAdjustmentRepository(q),
		Opnames:        NewOpnameRepository(q),
		Sequences:      NewSequenceRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Todo-o-nada: cualquier error de fn revierte cada
// escritura de la operación, incluidos los movimientos ya registrados.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return mapConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

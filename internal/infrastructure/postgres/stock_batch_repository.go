package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo implementación del Ledger Store sobre PostgreSQL
// (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

const batchColumns = `id, seq, product_id, location_id, qty_on_hand, allocated_qty, available_qty, received_at, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(&b.ID, &b.Seq, &b.ProductID, &b.LocationID,
		&b.QtyOnHand, &b.AllocatedQty, &b.AvailableQty,
		&b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta el lote; seq lo asigna la BD (bigserial) y se devuelve al
// entity para que el desempate FIFO quede determinista desde ya.
func (r *StockBatchRepo) Create(ctx context.Context, batch *entity.StockBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_batches (id, product_id, location_id, qty_on_hand, allocated_qty, available_qty, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		batch.ID, batch.ProductID, batch.LocationID,
		batch.QtyOnHand, batch.AllocatedQty, batch.AvailableQty,
		batch.ReceivedAt, batch.CreatedAt, batch.UpdatedAt,
	).Scan(&batch.Seq)
	if err != nil {
		return fmt.Errorf("create stock batch: %w", err)
	}
	return nil
}

// Update persiste las cantidades de un lote ya bloqueado por el caller.
func (r *StockBatchRepo) Update(ctx context.Context, batch *entity.StockBatch) error {
	query := `
		UPDATE stock_batches
		SET qty_on_hand = $2, allocated_qty = $3, available_qty = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		batch.ID, batch.QtyOnHand, batch.AllocatedQty, batch.AvailableQty, batch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock batch %s: no existe", batch.ID)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return b, nil
}

func (r *StockBatchRepo) list(ctx context.Context, productID, locationID, suffix string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM stock_batches
		WHERE product_id = $1 AND location_id = $2
		ORDER BY received_at, seq` + suffix
	rows, err := r.q.Query(ctx, query, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock batches: %w", err)
	}
	defer rows.Close()
	var batches []*entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ListByProductLocation lotes en orden FIFO (received_at, seq), sin bloqueo.
func (r *StockBatchRepo) ListByProductLocation(ctx context.Context, productID, locationID string) ([]*entity.StockBatch, error) {
	return r.list(ctx, productID, locationID, "")
}

// ListByProductLocationForUpdate igual que ListByProductLocation pero con
// SELECT ... FOR UPDATE: bloquea las filas hasta el fin de la transacción.
// Operaciones concurrentes sobre el mismo producto+bodega se serializan aquí;
// claves disjuntas avanzan en paralelo.
func (r *StockBatchRepo) ListByProductLocationForUpdate(ctx context.Context, productID, locationID string) ([]*entity.StockBatch, error) {
	batches, err := r.list(ctx, productID, locationID, " FOR UPDATE")
	if err != nil {
		return nil, mapConcurrency(err)
	}
	return batches, nil
}

// Aggregate suma onHand/allocated/available del producto.
// locationID vacío agrega entre todas las bodegas.
func (r *StockBatchRepo) Aggregate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT COALESCE(SUM(qty_on_hand), 0), COALESCE(SUM(allocated_qty), 0), COALESCE(SUM(available_qty), 0)
		FROM stock_batches WHERE product_id = $1`
	args := []any{productID}
	if locationID != "" {
		query += ` AND location_id = $2`
		args = append(args, locationID)
	}
	lvl := &entity.StockLevel{ProductID: productID, LocationID: locationID}
	err := r.q.QueryRow(ctx, query, args...).Scan(&lvl.OnHand, &lvl.Allocated, &lvl.Available)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock: %w", err)
	}
	return lvl, nil
}

// ListLevelsByLocation agregados por producto de una bodega, solo productos
// con algún lote registrado (el snapshot de un conteo físico).
func (r *StockBatchRepo) ListLevelsByLocation(ctx context.Context, locationID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, COALESCE(SUM(qty_on_hand), 0), COALESCE(SUM(allocated_qty), 0), COALESCE(SUM(available_qty), 0)
		FROM stock_batches
		WHERE location_id = $1
		GROUP BY product_id
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list levels by location: %w", err)
	}
	defer rows.Close()
	var levels []*entity.StockLevel
	for rows.Next() {
		lvl := &entity.StockLevel{LocationID: locationID}
		if err := rows.Scan(&lvl.ProductID, &lvl.OnHand, &lvl.Allocated, &lvl.Available); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		levels = append(levels, lvl)
	}
	return levels, rows.Err()
}

// ListBelowThreshold productos cuyo agregado global quedó en o bajo su umbral.
func (r *StockBatchRepo) ListBelowThreshold(ctx context.Context) ([]*entity.LowStockItem, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.low_stock_threshold,
		       COALESCE(SUM(b.qty_on_hand), 0) AS on_hand,
		       COALESCE(SUM(b.available_qty), 0) AS available
		FROM products p
		LEFT JOIN stock_batches b ON b.product_id = p.id
		WHERE p.low_stock_threshold > 0
		GROUP BY p.id, p.sku, p.name, p.low_stock_threshold
		HAVING COALESCE(SUM(b.qty_on_hand), 0) <= p.low_stock_threshold
		ORDER BY p.sku`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()
	var items []*entity.LowStockItem
	for rows.Next() {
		var it entity.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.Threshold, &it.OnHand, &it.Available); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, doc_number, supplier_id, location_id, status, notes, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var status string
	err := row.Scan(&o.ID, &o.DocNumber, &o.SupplierID, &o.LocationID,
		&status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.PurchaseOrderStatus(status)
	return &o, nil
}

// Create inserta la orden de compra y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, doc_number, supplier_id, location_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.DocNumber, order.SupplierID, order.LocationID,
		string(order.Status), order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.OrderID = order.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, order_id, product_id, quantity, unit_cost, received_qty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitCost, line.ReceivedQty)
		if err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, orderID string) ([]entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_cost, received_qty
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load purchase order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.ReceivedQty); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id, suffix string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1` + suffix
	o, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConcurrency(fmt.Errorf("get purchase order: %w", err))
	}
	if o.Lines, err = r.loadLines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID obtiene la orden con sus líneas, sin bloqueo.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila para serializar recepciones concurrentes.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// Update persiste estado, notas y el ReceivedQty de cada línea.
func (r *PurchaseOrderRepo) Update(ctx context.Context, order *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		order.ID, string(order.Status), order.Notes, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update purchase order %s: no existe", order.ID)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		_, err := r.q.Exec(ctx, `
			UPDATE purchase_order_lines SET received_qty = $2 WHERE id = $1`,
			line.ID, line.ReceivedQty)
		if err != nil {
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}

// List órdenes de compra paginadas, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, doc_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var orders []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Lines, err = r.loadLines(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

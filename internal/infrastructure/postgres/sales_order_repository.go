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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
// Las líneas viven en sales_order_lines y se cargan siempre junto a la orden.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const salesOrderColumns = `id, doc_number, customer_id, location_id, status, notes, created_at, updated_at`

func scanSalesOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	var status string
	err := row.Scan(&o.ID, &o.DocNumber, &o.CustomerID, &o.LocationID,
		&status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.SalesOrderStatus(status)
	return &o, nil
}

// Create inserta la orden y sus líneas en un solo viaje lógico.
func (r *SalesOrderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_orders (id, doc_number, customer_id, location_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.DocNumber, order.CustomerID, order.LocationID,
		string(order.Status), order.Notes, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create sales order: %w", err)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.OrderID = order.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_order_lines (id, order_id, product_id, quantity, unit_price, allocated_qty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.AllocatedQty)
		if err != nil {
			return fmt.Errorf("create sales order line: %w", err)
		}
	}
	return nil
}

func (r *SalesOrderRepo) loadLines(ctx context.Context, orderID string) ([]entity.SalesOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, allocated_qty
		FROM sales_order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load sales order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.AllocatedQty); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *SalesOrderRepo) get(ctx context.Context, id, suffix string) (*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders WHERE id = $1` + suffix
	o, err := scanSalesOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConcurrency(fmt.Errorf("get sales order: %w", err))
	}
	if o.Lines, err = r.loadLines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID obtiene la orden con sus líneas, sin bloqueo.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila de la orden; dos transiciones concurrentes
// sobre la misma orden se serializan y la segunda ve el estado ya cambiado.
func (r *SalesOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// Update persiste estado, notas y el AllocatedQty de cada línea.
func (r *SalesOrderRepo) Update(ctx context.Context, order *entity.SalesOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_orders SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		order.ID, string(order.Status), order.Notes, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sales order %s: no existe", order.ID)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		_, err := r.q.Exec(ctx, `
			UPDATE sales_order_lines SET allocated_qty = $2 WHERE id = $1`,
			line.ID, line.AllocatedQty)
		if err != nil {
			return fmt.Errorf("update sales order line: %w", err)
		}
	}
	return nil
}

// List órdenes paginadas, más recientes primero. status vacío no filtra.
func (r *SalesOrderRepo) List(ctx context.Context, status entity.SalesOrderStatus, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, doc_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var orders []*entity.SalesOrder
	for rows.Next() {
		o, err := scanSalesOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
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

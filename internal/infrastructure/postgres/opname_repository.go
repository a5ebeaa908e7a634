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

var _ repository.OpnameRepository = (*OpnameRepo)(nil)

// OpnameRepo implementación de OpnameRepository sobre PostgreSQL.
type OpnameRepo struct {
	q Querier
}

// NewOpnameRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpnameRepository(q Querier) *OpnameRepo {
	return &OpnameRepo{q: q}
}

const opnameColumns = `id, doc_number, location_id, status, notes, created_at, updated_at`

func scanOpname(row pgx.Row) (*entity.StockOpname, error) {
	var o entity.StockOpname
	var status string
	err := row.Scan(&o.ID, &o.DocNumber, &o.LocationID, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OpnameStatus(status)
	return &o, nil
}

// Create inserta el conteo y los ítems del snapshot.
func (r *OpnameRepo) Create(ctx context.Context, opname *entity.StockOpname) error {
	if opname.ID == "" {
		opname.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_opnames (id, doc_number, location_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		opname.ID, opname.DocNumber, opname.LocationID,
		string(opname.Status), opname.Notes, opname.CreatedAt, opname.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create opname: %w", err)
	}
	for i := range opname.Items {
		item := &opname.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OpnameID = opname.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_opname_items (id, opname_id, product_id, system_qty, actual_qty, difference, counted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.OpnameID, item.ProductID, item.SystemQty,
			item.ActualQty, item.Difference, item.CountedAt)
		if err != nil {
			return fmt.Errorf("create opname item: %w", err)
		}
	}
	return nil
}

func (r *OpnameRepo) loadItems(ctx context.Context, opnameID string) ([]entity.OpnameItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, opname_id, product_id, system_qty, actual_qty, difference, counted_at
		FROM stock_opname_items WHERE opname_id = $1 ORDER BY product_id`, opnameID)
	if err != nil {
		return nil, fmt.Errorf("load opname items: %w", err)
	}
	defer rows.Close()
	var items []entity.OpnameItem
	for rows.Next() {
		var it entity.OpnameItem
		if err := rows.Scan(&it.ID, &it.OpnameID, &it.ProductID, &it.SystemQty,
			&it.ActualQty, &it.Difference, &it.CountedAt); err != nil {
			return nil, fmt.Errorf("scan opname item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OpnameRepo) get(ctx context.Context, id, suffix string) (*entity.StockOpname, error) {
	query := `SELECT ` + opnameColumns + ` FROM stock_opnames WHERE id = $1` + suffix
	o, err := scanOpname(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConcurrency(fmt.Errorf("get opname: %w", err))
	}
	if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID obtiene el conteo con sus ítems, sin bloqueo.
func (r *OpnameRepo) GetByID(ctx context.Context, id string) (*entity.StockOpname, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila del conteo; conteos y cierres concurrentes
// del mismo opname se serializan aquí.
func (r *OpnameRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockOpname, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// Update persiste estado y notas del conteo.
func (r *OpnameRepo) Update(ctx context.Context, opname *entity.StockOpname) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_opnames SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		opname.ID, string(opname.Status), opname.Notes, opname.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update opname: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update opname %s: no existe", opname.ID)
	}
	return nil
}

// GetItem obtiene un renglón de conteo por ID.
func (r *OpnameRepo) GetItem(ctx context.Context, itemID string) (*entity.OpnameItem, error) {
	var it entity.OpnameItem
	err := r.q.QueryRow(ctx, `
		SELECT id, opname_id, product_id, system_qty, actual_qty, difference, counted_at
		FROM stock_opname_items WHERE id = $1`, itemID).
		Scan(&it.ID, &it.OpnameID, &it.ProductID, &it.SystemQty,
			&it.ActualQty, &it.Difference, &it.CountedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get opname item: %w", err)
	}
	return &it, nil
}

// UpdateItem persiste el conteo de un renglón (sobrescribible mientras el
// opname siga IN_PROGRESS).
func (r *OpnameRepo) UpdateItem(ctx context.Context, item *entity.OpnameItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_opname_items SET actual_qty = $2, difference = $3, counted_at = $4 WHERE id = $1`,
		item.ID, item.ActualQty, item.Difference, item.CountedAt)
	if err != nil {
		return fmt.Errorf("update opname item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update opname item %s: no existe", item.ID)
	}
	return nil
}

// List conteos paginados, más recientes primero.
func (r *OpnameRepo) List(ctx context.Context, status entity.OpnameStatus, limit, offset int) ([]*entity.StockOpname, error) {
	query := `SELECT ` + opnameColumns + ` FROM stock_opnames`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, doc_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opnames: %w", err)
	}
	defer rows.Close()
	var opnames []*entity.StockOpname
	for rows.Next() {
		o, err := scanOpname(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opname: %w", err)
		}
		opnames = append(opnames, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range opnames {
		if o.Items, err = r.loadItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return opnames, nil
}

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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL.
// Sin Update genérico: el único cambio permitido sobre un ajuste existente
// es MarkReversed.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, doc_number, product_id, location_id, direction, quantity, reason, note, COALESCE(reversal_of_id, ''), COALESCE(reversed_by_id, ''), COALESCE(created_by, ''), created_at`

func scanAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var direction, reason string
	err := row.Scan(&a.ID, &a.DocNumber, &a.ProductID, &a.LocationID,
		&direction, &a.Quantity, &reason, &a.Note,
		&a.ReversalOfID, &a.ReversedByID, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Direction = entity.AdjustmentDirection(direction)
	a.Reason = entity.AdjustmentReason(reason)
	return &a, nil
}

// Create inserta el ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, adjustment *entity.StockAdjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	reversalOf := (*string)(nil)
	if adjustment.ReversalOfID != "" {
		reversalOf = &adjustment.ReversalOfID
	}
	createdBy := (*string)(nil)
	if adjustment.CreatedBy != "" {
		createdBy = &adjustment.CreatedBy
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, doc_number, product_id, location_id, direction, quantity, reason, note, reversal_of_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		adjustment.ID, adjustment.DocNumber, adjustment.ProductID, adjustment.LocationID,
		string(adjustment.Direction), adjustment.Quantity, string(adjustment.Reason),
		adjustment.Note, reversalOf, createdBy, adjustment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

func (r *AdjustmentRepo) get(ctx context.Context, id, suffix string) (*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE id = $1` + suffix
	a, err := scanAdjustment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConcurrency(fmt.Errorf("get adjustment: %w", err))
	}
	return a, nil
}

// GetByID obtiene el ajuste, sin bloqueo.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila; dos reversas concurrentes del mismo
// ajuste se serializan y la segunda ve ReversedByID ya marcado.
func (r *AdjustmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// MarkReversed sella el ajuste con el ID de su reversa. Solo procede si aún
// no está reversado; 0 filas significa carrera perdida.
func (r *AdjustmentRepo) MarkReversed(ctx context.Context, id, reversedByID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_adjustments SET reversed_by_id = $2
		WHERE id = $1 AND reversed_by_id IS NULL`,
		id, reversedByID)
	if err != nil {
		return fmt.Errorf("mark adjustment reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark adjustment reversed %s: ya reversado o no existe", id)
	}
	return nil
}

// List ajustes paginados, más recientes primero. Filtros vacíos no aplican.
func (r *AdjustmentRepo) List(ctx context.Context, productID, locationID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments`
	args := []any{}
	where := ""
	if productID != "" {
		args = append(args, productID)
		where = fmt.Sprintf(` WHERE product_id = $%d`, len(args))
	}
	if locationID != "" {
		args = append(args, locationID)
		if where == "" {
			where = fmt.Sprintf(` WHERE location_id = $%d`, len(args))
		} else {
			where += fmt.Sprintf(` AND location_id = $%d`, len(args))
		}
	}
	query += where + fmt.Sprintf(` ORDER BY created_at DESC, doc_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var adjustments []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

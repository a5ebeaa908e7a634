package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es append-only por contrato y por esquema.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento. No existe Update ni Delete.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, product_id, location_id, batch_id, quantity, kind, reference_type, reference_id, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batchID := (*string)(nil)
	if m.BatchID != "" {
		batchID = &m.BatchID
	}
	actorID := (*string)(nil)
	if m.ActorID != "" {
		actorID = &m.ActorID
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.LocationID, batchID, m.Quantity,
		string(m.Kind), string(m.ReferenceType), m.ReferenceID, actorID, m.Note, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos más recientes de un producto; locationID vacío
// no filtra por bodega.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID, locationID string, limit int) ([]*entity.Movement, error) {
	query := `
		SELECT id, product_id, location_id, COALESCE(batch_id, ''), quantity, kind, reference_type, reference_id, COALESCE(actor_id, ''), note, created_at
		FROM movements WHERE product_id = $1`
	args := []any{productID}
	if locationID != "" {
		query += ` AND location_id = $2`
		args = append(args, locationID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind, refType string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.BatchID, &m.Quantity,
			&kind, &refType, &m.ReferenceID, &m.ActorID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.ReferenceType = entity.ReferenceType(refType)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProductLocation suma con signo; debe coincidir con el QtyOnHand
// agregado del producto en la bodega.
func (r *MovementRepo) SumByProductLocation(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM movements WHERE product_id = $1 AND location_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, doc_number, from_location_id, to_location_id, status, notes, created_at, updated_at`

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var status string
	err := row.Scan(&t.ID, &t.DocNumber, &t.FromLocationID, &t.ToLocationID,
		&status, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// Create inserta el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.StockTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transfers (id, doc_number, from_location_id, to_location_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transfer.ID, transfer.DocNumber, transfer.FromLocationID, transfer.ToLocationID,
		string(transfer.Status), transfer.Notes, transfer.CreatedAt, transfer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	for i := range transfer.Lines {
		line := &transfer.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TransferID = transfer.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_transfer_lines (id, transfer_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			line.ID, line.TransferID, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) loadLines(ctx context.Context, transferID string) ([]entity.StockTransferLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity
		FROM stock_transfer_lines WHERE transfer_id = $1 ORDER BY id`, transferID)
	if err != nil {
		return nil, fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.StockTransferLine
	for rows.Next() {
		var l entity.StockTransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *TransferRepo) get(ctx context.Context, id, suffix string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1` + suffix
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConcurrency(fmt.Errorf("get transfer: %w", err))
	}
	if t.Lines, err = r.loadLines(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID obtiene el traslado con sus líneas, sin bloqueo.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila del traslado para serializar transiciones.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// Update persiste estado y notas. Las líneas de un traslado no se editan.
func (r *TransferRepo) Update(ctx context.Context, transfer *entity.StockTransfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_transfers SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		transfer.ID, string(transfer.Status), transfer.Notes, transfer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transfer %s: no existe", transfer.ID)
	}
	return nil
}

// List traslados paginados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, doc_number DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var transfers []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range transfers {
		if t.Lines, err = r.loadLines(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return transfers, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo entrega números de documento desde secuencias nativas de
// PostgreSQL. nextval es atómico y monótono incluso entre transacciones
// concurrentes, que es exactamente lo que un número de documento necesita.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente valor de la secuencia doc_seq_<name>.
// Los nombres vienen del conjunto cerrado en repository (SeqSalesOrder, ...);
// nunca de entrada del usuario.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var n int64
	query := fmt.Sprintf(`SELECT nextval('doc_seq_%s')`, name)
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return n, nil
}

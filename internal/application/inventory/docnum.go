package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// NextDocNumber deriva el número legible de documento desde la secuencia
// monótona correspondiente (SO-000042, PO-000007, ...). El campo es solo de
// presentación; la identidad real es el UUID.
func NextDocNumber(ctx context.Context, seqs repository.SequenceRepository, seqName, prefix string) (string, error) {
	n, err := seqs.Next(ctx, seqName)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", seqName, err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
	"github.com/jhoicas/Inventario-core/internal/infrastructure/memory"
)

func TestParseAllocationPolicy(t *testing.T) {
	p, err := inventory.ParseAllocationPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, inventory.PolicyStrict, p)
	assert.False(t, p.Overcommit())

	p, err = inventory.ParseAllocationPolicy("allow-overcommit")
	require.NoError(t, err)
	assert.True(t, p.Overcommit())

	// Sin configurar, se preserva el comportamiento histórico.
	p, err = inventory.ParseAllocationPolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.PolicyAllowOvercommit, p)

	_, err = inventory.ParseAllocationPolicy("maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Los números de documento son monótonos por secuencia e independientes
// entre tipos de documento.
func TestNextDocNumber(t *testing.T) {
	ctx := context.Background()
	seqs := memory.NewStore().Repos().Sequences

	n1, err := inventory.NextDocNumber(ctx, seqs, repository.SeqSalesOrder, "SO")
	require.NoError(t, err)
	assert.Equal(t, "SO-000001", n1)

	n2, err := inventory.NextDocNumber(ctx, seqs, repository.SeqSalesOrder, "SO")
	require.NoError(t, err)
	assert.Equal(t, "SO-000002", n2)

	p1, err := inventory.NextDocNumber(ctx, seqs, repository.SeqPurchaseOrder, "PO")
	require.NoError(t, err)
	assert.Equal(t, "PO-000001", p1, "cada tipo lleva su propia secuencia")
}

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendaops/tienda-api/internal/errs"
)

// The price guard runs before any query, so a zero-value Repo is enough here.
func TestCreateRequiresPrice(t *testing.T) {
	r := &Repo{}
	_, err := r.Create(context.Background(), Input{Name: "Teclado"})
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateRequiresPrice(t *testing.T) {
	r := &Repo{}
	err := r.Update(context.Background(), 1, Input{Name: "Teclado"})
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
}

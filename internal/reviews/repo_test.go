package reviews

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendaops/tienda-api/internal/errs"
)

// testPool connects to the database named by TIENDA_TEST_DSN, or skips.
// The schema from migrations/schema.sql must already be applied.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TIENDA_TEST_DSN")
	if dsn == "" {
		t.Skip("set TIENDA_TEST_DSN to run database tests")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO usuarios(nombre, email) VALUES ('Cliente Prueba', $1) RETURNING id`,
		"reviews_"+t.Name()+"@example.com").Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM usuarios WHERE id=$1`, id)
	})
	return id
}

func seedProduct(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO productos(nombre, precio_centavos, stock) VALUES ($1, 1000, 5) RETURNING id`,
		"Producto "+t.Name()).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM productos WHERE id=$1`, id)
	})
	return id
}

func TestCreateSecondReviewConflicts(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)
	productID := seedProduct(t, pool)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM resenas WHERE usuario_id=$1`, userID)
	})

	first, err := repo.Create(context.Background(), userID, Input{ProductID: productID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Rating)

	_, err = repo.Create(context.Background(), userID, Input{ProductID: productID, Rating: 2})
	var cErr *errs.ConflictError
	require.ErrorAs(t, err, &cErr)

	// The first review is unaffected by the rejected second attempt.
	list, err := repo.List(context.Background(), ListFilter{ProductID: productID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, 5, list[0].Rating)
}

func TestCreateUnknownProduct(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)

	_, err := repo.Create(context.Background(), userID, Input{ProductID: 999999999, Rating: 4})
	var nfErr *errs.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

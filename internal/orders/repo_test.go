package orders

import (
	"context"
	"os"
	"sync"
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
		"orders_"+t.Name()+"@example.com").Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM usuarios WHERE id=$1`, id)
	})
	return id
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, priceCents int64, stock int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO productos(nombre, precio_centavos, stock) VALUES ($1, $2, $3) RETURNING id`,
		"Producto "+t.Name(), priceCents, stock).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM productos WHERE id=$1`, id)
	})
	return id
}

func productStock(t *testing.T, pool *pgxpool.Pool, id int64) int {
	t.Helper()
	var stock int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT stock FROM productos WHERE id=$1`, id).Scan(&stock))
	return stock
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)
	productID := seedProduct(t, pool, 1000, 5)

	o, err := repo.CreateOrder(context.Background(), userID, []LineInput{{ProductID: productID, Qty: 3}})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM pedidos WHERE id=$1`, o.ID)
	})

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(3000), o.TotalCents)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, int64(1000), o.Lines[0].UnitPriceCents)
	assert.Equal(t, 2, productStock(t, pool, productID))

	got, err := repo.GetByID(context.Background(), o.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, o.TotalCents, got.TotalCents)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Qty)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)
	okID := seedProduct(t, pool, 500, 10)
	shortID := seedProduct(t, pool, 2000, 1)

	_, err := repo.CreateOrder(context.Background(), userID, []LineInput{
		{ProductID: okID, Qty: 2},
		{ProductID: shortID, Qty: 5},
	})
	var sErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, shortID, sErr.ProductID)
	assert.Equal(t, 1, sErr.Available)
	assert.Equal(t, 5, sErr.Requested)

	// The earlier line must not leave a partial decrement behind.
	assert.Equal(t, 10, productStock(t, pool, okID))
	assert.Equal(t, 1, productStock(t, pool, shortID))

	var count int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM pedidos WHERE usuario_id=$1`, userID).Scan(&count))
	assert.Zero(t, count)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)

	_, err := repo.CreateOrder(context.Background(), userID, []LineInput{{ProductID: 999999999, Qty: 1}})
	var nfErr *errs.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

// Two orders race for the last unit. The row lock serializes them, so exactly
// one wins and stock never goes negative.
func TestCreateOrderConcurrentLastUnit(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)
	productID := seedProduct(t, pool, 1500, 1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := repo.CreateOrder(context.Background(), userID, []LineInput{{ProductID: productID, Qty: 1}})
			results[i] = err
			if err == nil {
				t.Cleanup(func() {
					_, _ = pool.Exec(context.Background(), `DELETE FROM pedidos WHERE id=$1`, o.ID)
				})
			}
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var sErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &sErr)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, productStock(t, pool, productID))
}

func TestListByUserOrdering(t *testing.T) {
	pool := testPool(t)
	repo := &Repo{DB: pool}
	userID := seedUser(t, pool)
	productID := seedProduct(t, pool, 800, 20)

	for i := 0; i < 3; i++ {
		o, err := repo.CreateOrder(context.Background(), userID, []LineInput{{ProductID: productID, Qty: 1}})
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = pool.Exec(context.Background(), `DELETE FROM pedidos WHERE id=$1`, o.ID)
		})
	}

	list, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, o := range list {
		assert.Empty(t, o.Lines, "listing returns order headers only")
	}
}

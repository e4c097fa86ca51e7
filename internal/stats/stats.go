package stats

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Snapshot struct {
	Users    UserStats    `json:"usuarios"`
	Products ProductStats `json:"productos"`
	Sales    SalesStats   `json:"ventas"`
}

type UserStats struct {
	Total int64 `json:"total"`
}

type ProductStats struct {
	Total         int64   `json:"total"`
	StockTotal    int64   `json:"stock_total"`
	AvgPriceCents float64 `json:"precio_promedio_centavos"`
}

type SalesStats struct {
	OrdersLast30d int64 `json:"pedidos_mes"`
	RevenueCents  int64 `json:"ingresos_mes_centavos"`
}

type Repo struct{ DB *pgxpool.Pool }

// Collect reads all aggregates inside one transaction so the snapshot is
// consistent across tables.
func (r *Repo) Collect(ctx context.Context) (*Snapshot, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var s Snapshot
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&s.Users.Total); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(stock), 0), COALESCE(AVG(precio_centavos), 0)
		 FROM productos WHERE activo = TRUE`).
		Scan(&s.Products.Total, &s.Products.StockTotal, &s.Products.AvgPriceCents); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_centavos), 0)
		 FROM pedidos WHERE fecha_pedido >= NOW() - INTERVAL '30 days'`).
		Scan(&s.Sales.OrdersLast30d, &s.Sales.RevenueCents); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

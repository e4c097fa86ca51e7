package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendaops/tienda-api/internal/errs"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateOrder runs the whole order unit of work in one transaction: per line,
// in input order, it locks the product row (SELECT ... FOR UPDATE), checks
// stock, snapshots the price, then inserts the order and its lines and
// decrements stock. Any failure rolls the whole thing back; no partial order
// or partial decrement is ever persisted. The row lock serializes concurrent
// orders on the same product, so the loser of a race re-reads the decremented
// stock and fails the check instead of overselling.
func (r *Repo) CreateOrder(ctx context.Context, userID int64, items []LineInput) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var total int64
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		var (
			name  string
			price int64
			stock int
		)
		err := tx.QueryRow(ctx,
			`SELECT nombre, precio_centavos, stock FROM productos
			 WHERE id=$1 AND activo = TRUE FOR UPDATE`, it.ProductID).
			Scan(&name, &price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("product %d not found or inactive", it.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if stock < it.Qty {
			return nil, &errs.InsufficientStockError{
				ProductID:   it.ProductID,
				ProductName: name,
				Available:   stock,
				Requested:   it.Qty,
			}
		}
		total += price * int64(it.Qty)
		lines = append(lines, Line{
			ProductID:      it.ProductID,
			ProductName:    name,
			Qty:            it.Qty,
			UnitPriceCents: price,
		})
	}

	o := Order{UserID: userID, Status: StatusPending, TotalCents: total}
	err = tx.QueryRow(ctx,
		`INSERT INTO pedidos(usuario_id, estado, total_centavos)
		 VALUES ($1, $2, $3) RETURNING id, fecha_pedido`,
		userID, StatusPending, total).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].OrderID = o.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO detalle_pedidos(pedido_id, producto_id, cantidad, precio_unitario_centavos)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			o.ID, lines[i].ProductID, lines[i].Qty, lines[i].UnitPriceCents).
			Scan(&lines[i].ID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE productos SET stock = stock - $2 WHERE id=$1`,
			lines[i].ProductID, lines[i].Qty); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *Repo) GetByID(ctx context.Context, id, userID int64) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx,
		`SELECT id, usuario_id, estado, total_centavos, fecha_pedido
		 FROM pedidos WHERE id=$1 AND usuario_id=$2`, id, userID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFoundf("order %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, usuario_id, estado, total_centavos, fecha_pedido
		 FROM pedidos WHERE usuario_id=$1 ORDER BY fecha_pedido DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) loadLines(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT d.id, d.pedido_id, d.producto_id, p.nombre, d.cantidad, d.precio_unitario_centavos
		 FROM detalle_pedidos d
		 JOIN productos p ON d.producto_id = p.id
		 WHERE d.pedido_id=$1 ORDER BY d.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Qty, &l.UnitPriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

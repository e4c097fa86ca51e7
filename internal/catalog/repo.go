package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

type ListFilter struct {
	Category      string
	PriceMinCents *int64
	PriceMaxCents *int64
	StockMin      *int
	Page          int
	Limit         int
}

func (f *ListFilter) normalize() {
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Page < 1 {
		f.Page = 1
	}
}

// List returns active products matching the filter, joined with their
// category name, ordered by name.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Product, error) {
	f.normalize()
	sql := `SELECT p.id, p.nombre, p.descripcion, p.precio_centavos, p.stock, p.activo,
	               p.imagen, p.categoria_id, c.nombre, p.fecha_creacion
	        FROM productos p
	        LEFT JOIN categorias c ON p.categoria_id = c.id
	        WHERE p.activo = TRUE`
	args := []any{}

	if f.Category != "" {
		sql += fmt.Sprintf(" AND c.nombre = $%d", len(args)+1)
		args = append(args, f.Category)
	}
	if f.PriceMinCents != nil {
		sql += fmt.Sprintf(" AND p.precio_centavos >= $%d", len(args)+1)
		args = append(args, *f.PriceMinCents)
	}
	if f.PriceMaxCents != nil {
		sql += fmt.Sprintf(" AND p.precio_centavos <= $%d", len(args)+1)
		args = append(args, *f.PriceMaxCents)
	}
	if f.StockMin != nil {
		sql += fmt.Sprintf(" AND p.stock >= $%d", len(args)+1)
		args = append(args, *f.StockMin)
	}
	sql += fmt.Sprintf(" ORDER BY p.nombre LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active,
			&p.ImagePath, &p.CategoryID, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx,
		`SELECT p.id, p.nombre, p.descripcion, p.precio_centavos, p.stock, p.activo,
		        p.imagen, p.categoria_id, c.nombre, p.fecha_creacion
		 FROM productos p
		 LEFT JOIN categorias c ON p.categoria_id = c.id
		 WHERE p.id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active,
			&p.ImagePath, &p.CategoryID, &p.Category, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFoundf("product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (*Product, error) {
	if in.PriceCents == nil {
		return nil, errs.Validation("precio_centavos is required")
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	var p Product
	err := r.DB.QueryRow(ctx,
		`INSERT INTO productos(nombre, descripcion, precio_centavos, stock, categoria_id, activo)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING id, nombre, descripcion, precio_centavos, stock, activo, imagen, categoria_id, fecha_creacion`,
		in.Name, in.Description, *in.PriceCents, stock, in.CategoryID).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active,
			&p.ImagePath, &p.CategoryID, &p.CreatedAt)
	if postgres.IsForeignKeyViolation(err) {
		return nil, errs.NotFoundf("category %d not found", deref(in.CategoryID))
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the product's editable fields wholesale: an omitted stock
// resets to 0, omitted descripcion and categoria_id to NULL. Partial edits
// must send the full current state.
func (r *Repo) Update(ctx context.Context, id int64, in Input) error {
	if in.PriceCents == nil {
		return errs.Validation("precio_centavos is required")
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	ct, err := r.DB.Exec(ctx,
		`UPDATE productos SET nombre=$1, descripcion=$2, precio_centavos=$3, stock=$4, categoria_id=$5
		 WHERE id=$6`,
		in.Name, in.Description, *in.PriceCents, stock, in.CategoryID, id)
	if postgres.IsForeignKeyViolation(err) {
		return errs.NotFoundf("category %d not found", deref(in.CategoryID))
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("product %d not found", id)
	}
	return nil
}

// SoftDelete deactivates a product; historical order lines keep referencing it.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `UPDATE productos SET activo=FALSE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("product %d not found", id)
	}
	return nil
}

func (r *Repo) SetImage(ctx context.Context, id int64, path string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE productos SET imagen=$1 WHERE id=$2`, path, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("product %d not found", id)
	}
	return nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/postgres"
)

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"usuario_id"`
	UserName  string    `json:"usuario,omitempty"`
	ProductID int64     `json:"producto_id"`
	Rating    int       `json:"calificacion"`
	Comment   *string   `json:"comentario,omitempty"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

type Input struct {
	ProductID int64   `json:"producto_id"`
	Rating    int     `json:"calificacion"`
	Comment   *string `json:"comentario"`
}

const maxCommentLen = 1000

// Validate returns the list of field violations; empty means valid.
func (in Input) Validate() []string {
	var violations []string
	if in.ProductID <= 0 {
		violations = append(violations, "producto_id is required and must be positive")
	}
	if in.Rating < 1 || in.Rating > 5 {
		violations = append(violations, "calificacion must be between 1 and 5")
	}
	if in.Comment != nil && len(*in.Comment) > maxCommentLen {
		violations = append(violations, fmt.Sprintf("comentario must not exceed %d characters", maxCommentLen))
	}
	return violations
}

type Repo struct{ DB *pgxpool.Pool }

// Create inserts one review. The unique (usuario_id, producto_id) constraint
// rejects a second review of the same product by the same user.
func (r *Repo) Create(ctx context.Context, userID int64, in Input) (*Review, error) {
	var rev Review
	err := r.DB.QueryRow(ctx,
		`INSERT INTO resenas(usuario_id, producto_id, calificacion, comentario)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, usuario_id, producto_id, calificacion, comentario, fecha_creacion`,
		userID, in.ProductID, in.Rating, in.Comment).
		Scan(&rev.ID, &rev.UserID, &rev.ProductID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return nil, &errs.ConflictError{Msg: fmt.Sprintf("user %d already reviewed product %d", userID, in.ProductID)}
	}
	if postgres.IsForeignKeyViolation(err) {
		return nil, errs.NotFoundf("product %d not found", in.ProductID)
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

type ListFilter struct {
	ProductID int64
	Page      int
	Limit     int
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Review, error) {
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Page < 1 {
		f.Page = 1
	}
	sql := `SELECT r.id, r.usuario_id, u.nombre, r.producto_id, r.calificacion, r.comentario, r.fecha_creacion
	        FROM resenas r
	        JOIN usuarios u ON r.usuario_id = u.id`
	args := []any{}
	if f.ProductID > 0 {
		sql += " WHERE r.producto_id = $1"
		args = append(args, f.ProductID)
	}
	sql += fmt.Sprintf(" ORDER BY r.fecha_creacion DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.UserName, &rev.ProductID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

package users

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

// Credential is the login projection of a user row. PasswordHash is nil for
// accounts created before password auth existed.
type Credential struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash *string
	Active       bool
}

func (r *Repo) GetCredentialByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := r.DB.QueryRow(ctx,
		`SELECT id, nombre, email, password, activo FROM usuarios WHERE email=$1`, email).
		Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &errs.AuthError{Msg: "invalid email or password"}
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx,
		`SELECT id, nombre, email, edad, activo, fecha_registro, ultimo_login
		 FROM usuarios WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Active, &u.RegisteredAt, &u.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFoundf("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type ListFilter struct {
	Active *bool
	Page   int
	Limit  int
}

func (f *ListFilter) normalize() {
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Page < 1 {
		f.Page = 1
	}
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]User, error) {
	f.normalize()
	sql := `SELECT id, nombre, email, edad, activo, fecha_registro, ultimo_login FROM usuarios`
	args := []any{}
	if f.Active != nil {
		sql += fmt.Sprintf(" WHERE activo = $%d", len(args)+1)
		args = append(args, *f.Active)
	}
	sql += fmt.Sprintf(" ORDER BY fecha_registro DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Active, &u.RegisteredAt, &u.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in Input, passwordHash string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx,
		`INSERT INTO usuarios(nombre, email, edad, password, activo)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, nombre, email, edad, activo, fecha_registro`,
		in.Name, in.Email, in.Age, passwordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.Active, &u.RegisteredAt)
	if postgres.IsUniqueViolation(err) {
		return nil, &errs.ConflictError{Msg: "email is already registered"}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE usuarios SET nombre=$1, email=$2, edad=$3 WHERE id=$4`,
		in.Name, in.Email, in.Age, id)
	if postgres.IsUniqueViolation(err) {
		return &errs.ConflictError{Msg: "email is already registered"}
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("user %d not found", id)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM usuarios WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("user %d not found", id)
	}
	return nil
}

func (r *Repo) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	var hash *string
	err := r.DB.QueryRow(ctx, `SELECT password FROM usuarios WHERE id=$1`, id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errs.NotFoundf("user %d not found", id)
	}
	if err != nil {
		return "", err
	}
	if hash == nil {
		return "", &errs.AuthError{Msg: "password not set for this account"}
	}
	return *hash, nil
}

func (r *Repo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE usuarios SET password=$1 WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.NotFoundf("user %d not found", id)
	}
	return nil
}

func (r *Repo) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `UPDATE usuarios SET ultimo_login=NOW() WHERE id=$1`, id)
	return err
}

package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/users"
)

type UsersHandler struct {
	Repo *users.Repo
	Auth *auth.Manager
	Log  zerolog.Logger
}

func (h *UsersHandler) Register(r chi.Router) {
	r.Get("/usuarios", h.list)
	r.With(h.Auth.Middleware).Get("/usuarios/{id}", h.get)
	r.With(h.Auth.Middleware).Post("/usuarios", h.create)
	r.With(h.Auth.Middleware).Put("/usuarios/{id}", h.update)
	r.With(h.Auth.Middleware).Delete("/usuarios/{id}", h.delete)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := users.ListFilter{
		Page:  atoiDefault(q.Get("pagina"), 1),
		Limit: atoiDefault(q.Get("limite"), 10),
	}
	if v := q.Get("activo"); v != "" {
		active := v == "true"
		f.Active = &active
	}
	list, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"usuarios": list,
		"pagina":   f.Page,
		"limite":   f.Limit,
	})
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	u, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if v := in.Validate(true); len(v) > 0 {
		writeError(w, h.Log, &errs.ValidationError{Violations: v})
		return
	}
	hash, err := users.HashPassword(in.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	u, err := h.Repo.Create(r.Context(), in, hash)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if v := in.Validate(false); len(v) > 0 {
		writeError(w, h.Log, &errs.ValidationError{Violations: v})
		return
	}
	if err := h.Repo.Update(r.Context(), id, in); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "user updated"})
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "user deleted"})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("id must be a positive integer")
	}
	return id, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

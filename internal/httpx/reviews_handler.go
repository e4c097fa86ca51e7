package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/cache"
	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/reviews"
)

type ReviewsHandler struct {
	Repo        *reviews.Repo
	Cache       cache.Service
	Invalidator *cache.Invalidator
	Auth        *auth.Manager
	Log         zerolog.Logger
}

func (h *ReviewsHandler) Register(r chi.Router) {
	r.Get("/resenas", Cached(h.Cache, cache.TTLListing, h.list))
	r.With(h.Auth.Middleware).Post("/resenas", h.create)
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := reviews.ListFilter{
		Page:  atoiDefault(q.Get("pagina"), 1),
		Limit: atoiDefault(q.Get("limite"), 10),
	}
	if v := q.Get("producto_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ProductID = id
		}
	}
	list, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resenas": list,
		"pagina":  f.Page,
		"limite":  f.Limit,
	})
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in reviews.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if v := in.Validate(); len(v) > 0 {
		writeError(w, h.Log, &errs.ValidationError{Violations: v})
		return
	}
	id, _ := auth.FromContext(r.Context())
	rev, err := h.Repo.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Invalidator.Reviews(r.Context())
	writeJSON(w, http.StatusCreated, rev)
}

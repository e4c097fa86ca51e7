package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/cache"
	"github.com/tiendaops/tienda-api/internal/catalog"
	"github.com/tiendaops/tienda-api/internal/errs"
	"github.com/tiendaops/tienda-api/internal/upload"
)

type ProductsHandler struct {
	Repo        *catalog.Repo
	Cache       cache.Service
	Invalidator *cache.Invalidator
	Uploads     *upload.Store
	Auth        *auth.Manager
	Log         zerolog.Logger
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.With(h.Auth.Middleware).Get("/productos", Cached(h.Cache, cache.TTLListing, h.list))
	r.With(h.Auth.Middleware).Get("/productos/{id}", Cached(h.Cache, cache.TTLListing, h.get))
	r.Post("/productos", h.create)
	r.With(h.Auth.Middleware).Put("/productos/{id}", h.update)
	r.With(h.Auth.Middleware).Delete("/productos/{id}", h.delete)
	r.With(h.Auth.Middleware).Post("/productos/{id}/imagen", h.uploadImage)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.ListFilter{
		Category: q.Get("categoria"),
		Page:     atoiDefault(q.Get("pagina"), 1),
		Limit:    atoiDefault(q.Get("limite"), 10),
	}
	if v := q.Get("precio_min"); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.PriceMinCents = &cents
		}
	}
	if v := q.Get("precio_max"); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.PriceMaxCents = &cents
		}
	}
	if v := q.Get("stock_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.StockMin = &n
		}
	}

	list, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"productos": list,
		"pagina":    f.Page,
		"limite":    f.Limit,
	})
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	p, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if v := in.Validate(); len(v) > 0 {
		writeError(w, h.Log, &errs.ValidationError{Violations: v})
		return
	}
	p, err := h.Repo.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Invalidator.Products(r.Context())
	h.Invalidator.Stats(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var in catalog.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Log, errs.Validation("invalid json body"))
		return
	}
	if v := in.Validate(); len(v) > 0 {
		writeError(w, h.Log, &errs.ValidationError{Violations: v})
		return
	}
	if err := h.Repo.Update(r.Context(), id, in); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Invalidator.Products(r.Context())
	h.Invalidator.Stats(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "product updated"})
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Repo.SoftDelete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Invalidator.Products(r.Context())
	h.Invalidator.Stats(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "product deactivated"})
}

func (h *ProductsHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := r.ParseMultipartForm(upload.MaxImageBytes); err != nil {
		writeError(w, h.Log, errs.Validation("multipart form with an 'imagen' file is required"))
		return
	}
	_, fh, err := r.FormFile("imagen")
	if err != nil {
		writeError(w, h.Log, errs.Validation("an 'imagen' file is required"))
		return
	}

	name, err := h.Uploads.SaveImage(fh)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if err := h.Repo.SetImage(r.Context(), id, name); err != nil {
		// The product row was not updated: remove the orphaned file.
		if rmErr := h.Uploads.Remove(name); rmErr != nil {
			h.Log.Warn().Err(rmErr).Str("file", name).Msg("could not remove orphaned upload")
		}
		writeError(w, h.Log, err)
		return
	}
	h.Invalidator.Products(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"imagen": name})
}

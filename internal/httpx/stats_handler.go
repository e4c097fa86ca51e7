package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/cache"
	"github.com/tiendaops/tienda-api/internal/stats"
)

type StatsHandler struct {
	Repo  *stats.Repo
	Cache cache.Service
	Auth  *auth.Manager
	Log   zerolog.Logger
}

func (h *StatsHandler) Register(r chi.Router) {
	r.With(h.Auth.Middleware).Get("/estadisticas", Cached(h.Cache, cache.TTLStats, h.get))
}

func (h *StatsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Collect(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

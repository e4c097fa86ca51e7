package httpx

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tiendaops/tienda-api/internal/cache"
)

// Cached wraps a GET handler with read-through response caching. The key is
// derived from path + query string; only 2xx bodies are stored. A cache-layer
// failure is invisible here: Get misses, Set is a no-op.
func Cached(svc cache.Service, ttl time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next(w, r)
			return
		}
		key := cache.Key(r.URL.Path, r.URL.RawQuery)
		if body, ok := svc.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(body)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		if rec.status >= 200 && rec.status < 300 && rec.body.Len() > 0 {
			svc.Set(r.Context(), key, bytes.Clone(rec.body.Bytes()), ttl)
		}
	}
}

// recorder tees the response body so a successful payload can be cached
// after the handler ran.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

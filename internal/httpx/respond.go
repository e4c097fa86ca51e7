package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/errs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP responses. Anything
// outside the taxonomy is infrastructure failure: logged in full, surfaced
// as a generic 500.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "invalid input",
			"detalles": vErr.Violations,
		})
		return
	}
	var aErr *errs.AuthError
	if errors.As(err, &aErr) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": aErr.Msg})
		return
	}
	var nfErr *errs.NotFoundError
	if errors.As(err, &nfErr) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nfErr.Msg})
		return
	}
	var cErr *errs.ConflictError
	if errors.As(err, &cErr) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": cErr.Msg})
		return
	}
	var sErr *errs.InsufficientStockError
	if errors.As(err, &sErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":       sErr.Error(),
			"producto_id": sErr.ProductID,
			"disponible":  sErr.Available,
			"solicitado":  sErr.Requested,
		})
		return
	}
	log.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

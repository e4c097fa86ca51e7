package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendaops/tienda-api/internal/errs"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			err:      errs.Validation("nombre is required"),
			wantCode: http.StatusBadRequest,
			wantBody: "invalid input",
		},
		{
			name:     "auth",
			err:      &errs.AuthError{Msg: "invalid credentials"},
			wantCode: http.StatusUnauthorized,
			wantBody: "invalid credentials",
		},
		{
			name:     "not found",
			err:      errs.NotFoundf("product %d not found", 9),
			wantCode: http.StatusNotFound,
			wantBody: "product 9 not found",
		},
		{
			name:     "conflict",
			err:      &errs.ConflictError{Msg: "email is already registered"},
			wantCode: http.StatusConflict,
			wantBody: "email is already registered",
		},
		{
			name:     "unknown errors stay opaque",
			err:      errors.New("pg: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: "internal server error",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, zerolog.Nop(), tc.err)
			assert.Equal(t, tc.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestWriteErrorInsufficientStockBody(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, zerolog.Nop(), &errs.InsufficientStockError{
		ProductID:   7,
		ProductName: "Teclado",
		Available:   2,
		Requested:   5,
	})
	require.Equal(t, http.StatusConflict, rr.Code)

	var body struct {
		ProductID int64 `json:"producto_id"`
		Available int   `json:"disponible"`
		Requested int   `json:"solicitado"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ProductID)
	assert.Equal(t, 2, body.Available)
	assert.Equal(t, 5, body.Requested)
}

func TestWriteErrorUnknownErrorNeverLeaksDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, zerolog.Nop(), errors.New("dial tcp 10.0.0.3:5432: i/o timeout"))
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
}

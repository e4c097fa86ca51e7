package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedProbe(t *testing.T) (http.Handler, *Identity) {
	t.Helper()
	seen := &Identity{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		require.True(t, ok, "identity must be in the request context")
		*seen = id
		w.WriteHeader(http.StatusNoContent)
	}), seen
}

func TestMiddlewarePassesValidToken(t *testing.T) {
	m := NewManager("secreto-de-prueba")
	token, err := m.Issue(Identity{UserID: 12, Email: "ana@example.com"})
	require.NoError(t, err)

	next, seen := protectedProbe(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/12", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	m.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, int64(12), seen.UserID)
	assert.Equal(t, "ana@example.com", seen.Email)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	m := NewManager("secreto-de-prueba")
	next, _ := protectedProbe(t)

	rr := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/usuarios", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "bearer token required")
}

func TestMiddlewareInvalidToken(t *testing.T) {
	m := NewManager("secreto-de-prueba")
	next, _ := protectedProbe(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	req.Header.Set("Authorization", "Bearer basura")
	m.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or expired token")
}

func TestMiddlewareRejectsNonBearerScheme(t *testing.T) {
	m := NewManager("secreto-de-prueba")
	next, _ := protectedProbe(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	m.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

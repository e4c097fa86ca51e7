package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendaops/tienda-api/internal/errs"
)

// multipartFile builds a *multipart.FileHeader the same way net/http hands
// one to a handler.
func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="imagen"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	_, fh, err := req.FormFile("imagen")
	require.NoError(t, err)
	return fh
}

func TestSaveImageStoresSanitizedUniqueName(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "mi foto (1).png", "image/png", []byte("png-bytes"))
	name, err := store.SaveImage(fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "mi_foto__1_-"), "unsafe characters replaced: %s", name)
	assert.True(t, strings.HasSuffix(name, ".png"), "extension follows content type: %s", name)

	data, err := os.ReadFile(filepath.Join(store.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveImageNamesDoNotCollide(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	a, err := store.SaveImage(multipartFile(t, "foto.jpg", "image/jpeg", []byte("a")))
	require.NoError(t, err)
	b, err := store.SaveImage(multipartFile(t, "foto.jpg", "image/jpeg", []byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveImageRejectsUnsupportedType(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "nota.txt", "text/plain", []byte("hola"))
	_, err = store.SaveImage(fh)
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave nothing on disk")
}

func TestSaveImageRejectsOversize(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "foto.png", "image/png", []byte("x"))
	fh.Size = MaxImageBytes + 1

	_, err = store.SaveImage(fh)
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRemove(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := store.SaveImage(multipartFile(t, "foto.gif", "image/gif", []byte("gif")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove("no-existe.png"), "removing a missing file is not an error")
}

package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tiendaops/tienda-api/internal/errs"
)

const MaxImageBytes = 5 << 20

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Store writes uploaded product images to a local directory. Callers own
// orphan cleanup: if the write that references the file later fails, they
// must call Remove.
type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// SaveImage validates type and size, then stores the file under a sanitized
// unique name and returns that name (relative to the store directory).
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageBytes {
		return "", errs.Validation(fmt.Sprintf("image exceeds the %d byte limit", MaxImageBytes))
	}
	ext, ok := extByMime[fh.Header.Get("Content-Type")]
	if !ok {
		return "", errs.Validation("unsupported image type: only JPEG, PNG, GIF and WEBP are accepted")
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	clean := unsafeChars.ReplaceAllString(base, "_")
	if clean == "" {
		clean = "imagen"
	}
	name := fmt.Sprintf("%s-%s%s", clean, uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageBytes)); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

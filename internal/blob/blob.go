// Package blob stores uploaded prescription images.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is returned for zero-byte uploads.
var ErrEmpty = errors.New("blob: empty upload")

// Store persists objects and returns a URL the browser can load.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// FileStore writes objects below Root and serves them under BaseURL.
type FileStore struct {
	Root    string
	BaseURL string
	Prefix  string
	now     func() time.Time
}

// NewFileStore creates root if needed.
func NewFileStore(root, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob root: %w", err)
	}
	return &FileStore{
		Root:    root,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Prefix:  "prescriptions",
		now:     time.Now,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName builds "<prefix>/<unix ms>_<uuid>_<sanitized name>".
func ObjectName(prefix string, at time.Time, name string) string {
	base := unsafeChars.ReplaceAllString(filepath.Base(name), "_")
	if base == "" || base == "." || base == "_" {
		base = "image"
	}
	return path.Join(prefix, fmt.Sprintf("%d_%s_%s", at.UnixMilli(), uuid.NewString(), base))
}

// Put copies r into a new object named after name.
func (s *FileStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ObjectName(s.Prefix, s.now(), name)
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("blob mkdir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("blob create: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmpty
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

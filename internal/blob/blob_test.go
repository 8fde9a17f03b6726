package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	tests := []struct {
		name   string
		in     string
		suffix string
	}{
		{"plain", "scan.png", "_scan.png"},
		{"spaces", "my scan (1).jpg", "_my_scan_1_.jpg"},
		{"path traversal", "../../etc/passwd", "_passwd"},
		{"empty", "", "_image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ObjectName("prescriptions", at, tt.in)
			assert.True(t, strings.HasPrefix(got, "prescriptions/1700000000123_"), got)
			assert.True(t, strings.HasSuffix(got, tt.suffix), got)
			assert.NotContains(t, got, "..")
		})
	}
}

func TestFileStore_Put(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, "/uploads/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "rx.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/prescriptions/"), url)

	b, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(b))
}

func TestFileStore_PutEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "empty.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

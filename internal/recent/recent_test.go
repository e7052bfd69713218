package recent

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/fitsview/internal/storage"
)

// captureBuffer returns a buffer for capturing output.
func captureBuffer() *bytes.Buffer { return &bytes.Buffer{} }

func TestNewBook_CreatesStorage(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	storagePath := filepath.Join(tempDir, "config.yaml")

	b, err := NewBook(storagePath)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NotEmpty(t, b.Storage.Data.InstallID)

	// Storage file should be created on first Save.
	require.NoError(t, b.Storage.Save())
	if _, err := os.Stat(storagePath); err != nil {
		t.Fatalf("expected storage file to exist: %v", err)
	}
}

func TestView_Empty(t *testing.T) {
	t.Parallel()

	b, err := NewBook(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	buf := captureBuffer()
	b.View(buf)
	assert.Contains(t, buf.String(), "No recent files.")
}

func TestAdd_PersistsNewestFirst(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	storagePath := filepath.Join(tempDir, "config.yaml")

	b, err := NewBook(storagePath)
	require.NoError(t, err)
	require.NoError(t, b.Add("/data/a.fits"))
	require.NoError(t, b.Add("/data/b.fits"))
	require.NoError(t, b.Add("/data/a.fits"))

	// Re-open storage via a new book to ensure persistence on disk.
	b2, err := NewBook(storagePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a.fits", "/data/b.fits"}, b2.Storage.Data.Recent)

	buf := captureBuffer()
	b2.View(buf)
	out := buf.String()
	assert.Contains(t, out, " 1. /data/a.fits")
	assert.Contains(t, out, " 2. /data/b.fits")
}

func TestAdd_BoundsList(t *testing.T) {
	t.Parallel()

	b, err := NewBook(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	for i := 0; i < storage.MaxRecent+3; i++ {
		require.NoError(t, b.Add(fmt.Sprintf("/data/%02d.fits", i)))
	}
	require.Len(t, b.Storage.Data.Recent, storage.MaxRecent)
	assert.Equal(t, "/data/12.fits", b.Storage.Data.Recent[0])
}

func TestReset_ClearsEntries(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	storagePath := filepath.Join(tempDir, "config.yaml")

	b, err := NewBook(storagePath)
	require.NoError(t, err)
	require.NoError(t, b.Add("/data/a.fits"))
	require.NoError(t, b.Reset())

	b2, err := NewBook(storagePath)
	require.NoError(t, err)
	assert.Empty(t, b2.Storage.Data.Recent)

	buf := captureBuffer()
	b2.View(buf)
	assert.Contains(t, buf.String(), "No recent files.")
}

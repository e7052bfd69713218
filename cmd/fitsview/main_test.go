package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/fitsview/internal/fitsfile/fitstest"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fitsview-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "fitsview-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Binary failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd runs the binary with HOME pointed at a scratch directory so that the
// default preferences file never touches the real home.
func newCmd(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(buildTestBinary(t), args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	return cmd
}

func writeFITS(t *testing.T, dir, name string) string {
	t.Helper()
	return fitstest.Write(t, dir, name, fitstest.Image(8, 6, func(x, y int) float64 { return float64(x + y) },
		fitstest.Card{Key: "TELESCOP", Value: "VLT"},
		fitstest.Card{Key: "OBJECT", Value: "M31"},
	))
}

func TestCLI_HelpOutput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "root help",
			args: []string{"--help"},
			contains: []string{
				"fitsview",
				"FITS image",
				"scan",
				"recent",
				"--dump-header",
				"--zoom-width",
				"--colormap",
				"--log-file",
			},
		},
		{
			name:     "scan help",
			args:     []string{"scan", "--help"},
			contains: []string{"DIR|FILE", "--json", "--verbose"},
		},
		{
			name:     "recent help",
			args:     []string{"recent", "--help"},
			contains: []string{"recently opened", "reset"},
		},
		{
			name:     "version",
			args:     []string{"--version"},
			contains: []string{"dev", "commit: none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, tt.args...).CombinedOutput()
			require.NoError(t, err)

			for _, expected := range tt.contains {
				assert.Contains(t, string(output), expected)
			}
		})
	}
}

func TestCLI_FileChecks(t *testing.T) {
	tempDir := t.TempDir()

	empty := filepath.Join(tempDir, "empty.fits")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	text := filepath.Join(tempDir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0o600))
	image := writeFITS(t, tempDir, "image.fits")

	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "no arguments",
			args:     nil,
			errorMsg: "usage: fitsview <filename> [-d]",
		},
		{
			name:     "too many arguments",
			args:     []string{image, image},
			errorMsg: "usage: fitsview <filename> [-d]",
		},
		{
			name:     "missing file",
			args:     []string{filepath.Join(tempDir, "missing.fits")},
			errorMsg: "does not exist",
		},
		{
			name:     "directory",
			args:     []string{tempDir},
			errorMsg: "does not exist",
		},
		{
			name:     "empty file",
			args:     []string{empty},
			errorMsg: "is empty",
		},
		{
			name:     "wrong extension",
			args:     []string{text},
			errorMsg: "is not a FITS file",
		},
		{
			name:     "unknown colormap",
			args:     []string{image, "--colormap", "jet"},
			errorMsg: "unknown colormap",
		},
		{
			name:     "invalid command flag",
			args:     []string{image, "--no-such-flag"},
			errorMsg: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := newCmd(t, tt.args...).CombinedOutput()
			require.Error(t, err)
			assert.Contains(t, string(output), tt.errorMsg)
		})
	}
}

func TestCLI_ScanCommand(t *testing.T) {
	dir := t.TempDir()
	writeFITS(t, dir, "a.fits")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o700))
	writeFITS(t, filepath.Join(dir, "sub"), "b.fit")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o600))

	t.Run("table", func(t *testing.T) {
		var stdout bytes.Buffer
		cmd := newCmd(t, "scan", dir)
		cmd.Stdout = &stdout
		cmd.Stderr = &stdout
		require.NoError(t, cmd.Run(), "Command output: %s", stdout.String())

		out := stdout.String()
		assert.Contains(t, out, "FITSVIEW CATALOG")
		assert.Contains(t, out, "a.fits")
		assert.Contains(t, out, "b.fit")
		assert.NotContains(t, out, "readme.md")
	})

	t.Run("json", func(t *testing.T) {
		output, err := newCmd(t, "scan", "--json", dir).Output()
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(output, &result), "Output should be valid JSON: %s", string(output))
		assert.InDelta(t, 2, result["total_files"], 0)
		assert.InDelta(t, 2, result["readable"], 0)

		entries, ok := result["entries"].([]interface{})
		require.True(t, ok)
		require.Len(t, entries, 2)
		first := entries[0].(map[string]interface{})
		assert.InDelta(t, 8, first["width"], 0)
		assert.Equal(t, "VLT", first["telescope"])
	})
}

func TestCLI_RecentCommands(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	content := "zoom_width: 250\nbins: 100\ncolormap: viridis\nrecent:\n  - /data/m31.fits\n  - /data/m42.fits\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))

	output, err := newCmd(t, "recent", "--config", config).CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.Contains(t, string(output), " 1. /data/m31.fits")
	assert.Contains(t, string(output), " 2. /data/m42.fits")

	output, err = newCmd(t, "recent", "reset", "--config", config).CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.Contains(t, string(output), "Recent files cleared")

	output, err = newCmd(t, "recent", "--config", config).CombinedOutput()
	require.NoError(t, err, "Output: %s", string(output))
	assert.Contains(t, string(output), "No recent files.")
}

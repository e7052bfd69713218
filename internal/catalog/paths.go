package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charlievieth/fastwalk"

	"github.com/ensigniasec/fitsview/internal/fitsfile"
)

// skipDirs are directories we don't want to scan.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{
	".git",
	".svn",
	"node_modules",
	"__pycache__",
	".venv",
	".cache",
	".ipynb_checkpoints",
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPath expands both tilde and environment variables based on the OS.
func expandPath(path string) (string, error) {
	var err error

	if runtime.GOOS != "windows" {
		path, err = expandTilde(path)
		if err != nil {
			return "", err
		}
	}

	path = os.ExpandEnv(path)

	return filepath.Clean(path), nil
}

const streamBufferSize = 64

// streamFITSFiles walks a directory and streams files with a FITS extension
// over a channel. The channel is closed when walking completes or the context
// is canceled.
func streamFITSFiles(ctx context.Context, root string) <-chan string {
	out := make(chan string, streamBufferSize)
	go func() {
		defer close(out)
		conf := fastwalk.DefaultConfig
		_ = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries.
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if d.IsDir() {
				if path != root && isSkippedDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if fitsfile.HasFITSExtension(d.Name()) {
				select {
				case out <- path:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}()
	return out
}

// Package fitsfile accepts, opens and decodes FITS images for viewing. The file
// format itself is handled by github.com/astrogo/fitsio; this package selects
// the image HDU, converts its pixels and extracts the header fields the viewer
// displays.
package fitsfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for the file-acceptance checks.
var (
	ErrNotExist = errors.New("file does not exist")
	ErrEmpty    = errors.New("file is empty")
	ErrNotFITS  = errors.New("not a FITS file")
)

// Extensions lists the accepted file name extensions, lower-case.
//
//nolint:gochecknoglobals // immutable lookup table.
var Extensions = []string{".fits", ".fit", ".fts"}

// CheckError carries the rejected path alongside the failed check.
type CheckError struct {
	Path string
	Err  error
}

func (e *CheckError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotExist):
		return fmt.Sprintf("The file %s does not exist", e.Path)
	case errors.Is(e.Err, ErrEmpty):
		return fmt.Sprintf("The file %s is empty", e.Path)
	case errors.Is(e.Err, ErrNotFITS):
		return fmt.Sprintf("The file %s is not a FITS file", e.Path)
	default:
		return fmt.Sprintf("The file %s cannot be used: %v", e.Path, e.Err)
	}
}

func (e *CheckError) Unwrap() error { return e.Err }

// Check runs the acceptance checks in order: the path names an existing
// regular file, the file is not empty, and its name has a FITS extension.
func Check(path string) error {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return &CheckError{Path: path, Err: ErrNotExist}
	}
	if st.Size() == 0 {
		return &CheckError{Path: path, Err: ErrEmpty}
	}
	if !HasFITSExtension(path) {
		return &CheckError{Path: path, Err: ErrNotFITS}
	}
	return nil
}

// HasFITSExtension reports whether name ends in one of Extensions, ignoring case.
func HasFITSExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Title derives a display title from a path: the base name up to its first dot.
func Title(path string) string {
	base := filepath.Base(path)
	title, _, _ := strings.Cut(base, ".")
	if title == "" {
		return base
	}
	return title
}

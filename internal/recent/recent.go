package recent

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/fitsview/internal/storage"
)

// Book handles the logic for the recent files commands.
type Book struct {
	Storage *storage.Storage
}

// NewBook creates a new Book instance.
func NewBook(storagePath string) (*Book, error) {
	s, err := storage.NewStorage(storagePath)
	if err != nil {
		return nil, err
	}

	return &Book{Storage: s}, nil
}

// View prints the recently opened files to the provided writer, newest first.
func (b *Book) View(w io.Writer) {
	if len(b.Storage.Data.Recent) == 0 {
		fmt.Fprintln(w, "No recent files.")
		return
	}

	for i, path := range b.Storage.Data.Recent {
		fmt.Fprintf(w, "%2d. %s\n", i+1, path)
	}
}

// Add records path as the most recently opened file. A path already in the
// list moves to the front; the oldest entries drop past storage.MaxRecent.
func (b *Book) Add(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	logrus.Debugf("Recording recent file: %s", path)
	list := slices.DeleteFunc(slices.Clone(b.Storage.Data.Recent), func(p string) bool { return p == path })
	list = append([]string{path}, list...)
	if len(list) > storage.MaxRecent {
		list = list[:storage.MaxRecent]
	}
	b.Storage.Data.Recent = list
	return b.Storage.Save()
}

// Reset clears the recent files list.
func (b *Book) Reset() error {
	logrus.Debug("Resetting recent files")
	b.Storage.Data.Recent = nil
	return b.Storage.Save()
}

// Package catalog discovers FITS files under a set of targets and summarises
// their image shape and header metadata.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/fitsview/internal/fitsfile"
)

// EntryError is a serialized error message for JSON friendliness.
type EntryError struct {
	Message string `json:"message"`
}

// Entry describes one catalogued file.
type Entry struct {
	Path      string      `json:"path" validate:"omitempty,filepath"`
	Size      int64       `json:"size"`
	HDU       int         `json:"hdu"`
	Width     int         `json:"width,omitempty"`
	Height    int         `json:"height,omitempty"`
	Unit      string      `json:"unit,omitempty"`
	Telescope string      `json:"telescope,omitempty"`
	Object    string      `json:"object,omitempty"`
	Date      string      `json:"date,omitempty"`
	Error     *EntryError `json:"error,omitempty"`
}

// Result represents the results of a scan across all targets.
type Result struct {
	Targets     []string      `json:"targets"`
	Entries     []Entry       `json:"entries"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration,omitempty"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
}

// Catalog scans targets for FITS files.
type Catalog struct {
	seenFiles         map[string]struct{}
	targets           []string
	Result            *Result
	streamingCallback func(path string, entry *Entry, err error)
}

// NewCatalog creates a catalog over targets (files or directories).
func NewCatalog(targets []string) *Catalog {
	return &Catalog{
		targets:   targets,
		seenFiles: make(map[string]struct{}),
		Result:    &Result{Targets: targets, StartedAt: time.Now()},
	}
}

// WithStreamingCallback sets a callback for real-time file processing updates.
// It is called once with a nil entry when a file is picked up and once more
// when it has been inspected.
func (c *Catalog) WithStreamingCallback(callback func(path string, entry *Entry, err error)) *Catalog { //nolint:ireturn
	c.streamingCallback = callback
	return c
}

// Scan walks every target and inspects each FITS file found. Entries are
// sorted by path.
func (c *Catalog) Scan(ctx context.Context) (*Result, error) {
	logrus.Debug("Starting catalog scan of ", len(c.targets), " targets")
	c.Result.Entries = nil

	processFile := func(path string) {
		if _, ok := c.seenFiles[path]; ok {
			return
		}
		c.seenFiles[path] = struct{}{}

		if c.streamingCallback != nil {
			c.streamingCallback(path, nil, nil)
		}
		entry, err := inspect(path)
		if c.streamingCallback != nil {
			c.streamingCallback(path, entry, err)
		}
		if err != nil {
			logrus.Debugf("Could not read %s: %v", path, err)
			entry.Error = &EntryError{Message: err.Error()}
		}
		c.Result.Entries = append(c.Result.Entries, *entry)
	}

	for _, target := range c.targets {
		if err := ctx.Err(); err != nil {
			return c.Result, err
		}
		target, err := expandPath(target)
		if err != nil {
			logrus.Debugf("Failed to expand target %s: %v", target, err)
			continue
		}
		st, err := os.Stat(target)
		if err != nil {
			logrus.Debugf("Skipping target %s due to error: %v", target, err)
			continue
		}
		if !st.IsDir() {
			processFile(target)
			continue
		}
		for p := range streamFITSFiles(ctx, target) {
			processFile(p)
		}
	}

	sort.Slice(c.Result.Entries, func(i, j int) bool {
		return c.Result.Entries[i].Path < c.Result.Entries[j].Path
	})
	c.Result.CompletedAt = time.Now()
	c.Result.Duration = c.Result.CompletedAt.Sub(c.Result.StartedAt)

	logrus.Debug("Catalog scan completed successfully")
	return c.Result, ctx.Err()
}

// inspect checks and loads path. The returned entry is never nil.
func inspect(path string) (*Entry, error) {
	entry := &Entry{Path: path}
	if abs, err := filepath.Abs(path); err == nil {
		entry.Path = abs
	}
	if st, err := os.Stat(path); err == nil {
		entry.Size = st.Size()
	}
	if err := fitsfile.Check(path); err != nil {
		return entry, err
	}
	doc, err := fitsfile.Load(path)
	if err != nil {
		return entry, err
	}
	entry.HDU = doc.HDU
	entry.Width = doc.Image.Width()
	entry.Height = doc.Image.Height()
	entry.Unit = doc.Meta.Unit
	entry.Telescope = doc.Meta.Telescope
	entry.Object = doc.Meta.Object
	entry.Date = doc.Meta.Date
	return entry, nil
}

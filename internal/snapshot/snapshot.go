// Package snapshot exports a region of the image, coloured at the current
// contrast, as a PNG file.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/ensigniasec/fitsview/internal/colormap"
	"github.com/ensigniasec/fitsview/internal/imagestore"
)

const (
	// MinSide is the size small regions are upscaled towards.
	MinSide   = 512
	maxFactor = 16
)

var ErrEmptyRegion = errors.New("snapshot region is empty")

// Render colours the pixels of r over [vmin, vmax]. Row 0 of the image is at
// the bottom, so rows are flipped into image space.
func Render(img *imagestore.Image, r imagestore.Region, vmin, vmax float64, cmap *colormap.Map) (*image.RGBA, error) {
	r = r.Clamp(img.Width(), img.Height())
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.YMin; y < r.YMax; y++ {
		row := r.YMax - 1 - y
		for x := r.XMin; x < r.XMax; x++ {
			out.SetRGBA(x-r.XMin, row, cmap.Color(img.At(x, y), vmin, vmax))
		}
	}
	return out, nil
}

// Factor returns the integer upscale factor for a region of w x h pixels.
func Factor(w, h int) int {
	side := max(w, h)
	if side <= 0 {
		return 1
	}
	return max(1, min(maxFactor, MinSide/side))
}

// Upscale enlarges src by factor with nearest-neighbour sampling so pixels
// stay crisp.
func Upscale(src image.Image, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// FileName builds the snapshot file name for title and region at now.
func FileName(title string, r imagestore.Region, now time.Time) string {
	return fmt.Sprintf("%s_x%d-%d_y%d-%d_%s.png",
		title, r.XMin, r.XMax, r.YMin, r.YMax, now.Format("20060102-150405"))
}

// Save renders r, upscales it and writes it into dir. It returns the written path.
func Save(dir, title string, img *imagestore.Image, r imagestore.Region, vmin, vmax float64, cmap *colormap.Map) (string, error) {
	rgba, err := Render(img, r, vmin, vmax, cmap)
	if err != nil {
		return "", err
	}
	if f := Factor(rgba.Bounds().Dx(), rgba.Bounds().Dy()); f > 1 {
		rgba = Upscale(rgba, f)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	path := filepath.Join(dir, FileName(title, r.Clamp(img.Width(), img.Height()), time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := png.Encode(f, rgba); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

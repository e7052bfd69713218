// Package imagestore holds the immutable pixel array a viewing session works on,
// together with its display-range bounds, unit and coordinate projection.
package imagestore

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ensigniasec/fitsview/internal/wcs"
)

// ErrShape reports a pixel buffer that does not match the declared dimensions.
var ErrShape = errors.New("pixel buffer does not match image shape")

// Image is a read-only 2-D intensity array. Row 0 is the bottom row, matching
// the FITS convention of a lower-left origin.
type Image struct {
	width  int
	height int
	data   []float64

	min, max float64
	// sorted holds the finite pixels in ascending order. Clipping is monotone,
	// so a clipped copy of it stays sorted and can be binned directly.
	sorted []float64

	unit       string
	projection *wcs.Projection
}

// Option configures an Image at construction time.
type Option func(*Image)

// WithUnit sets the physical intensity unit label (FITS BUNIT).
func WithUnit(unit string) Option {
	return func(img *Image) { img.unit = unit }
}

// WithProjection attaches the sky-coordinate projection of the image.
func WithProjection(p *wcs.Projection) Option {
	return func(img *Image) { img.projection = p }
}

// New wraps a row-major pixel buffer. The buffer is owned by the image from
// then on and must not be modified by the caller.
func New(width, height int, data []float64, opts ...Option) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d", ErrShape, width, height, width*height, len(data))
	}

	img := &Image{width: width, height: height, data: data}
	for _, opt := range opts {
		opt(img)
	}

	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		img.min, img.max = 0, 0
	} else {
		img.min, img.max = floats.Min(finite), floats.Max(finite)
	}
	sort.Float64s(finite)
	img.sorted = finite
	return img, nil
}

// Width returns the number of columns.
func (img *Image) Width() int { return img.width }

// Height returns the number of rows.
func (img *Image) Height() int { return img.height }

// Min returns the smallest finite pixel value.
func (img *Image) Min() float64 { return img.min }

// Max returns the largest finite pixel value.
func (img *Image) Max() float64 { return img.max }

// Unit returns the intensity unit label, possibly empty.
func (img *Image) Unit() string { return img.unit }

// Projection returns the sky projection, or nil when the file carries none.
func (img *Image) Projection() *wcs.Projection { return img.projection }

// FinitePixels returns the number of non-NaN, non-Inf pixels.
func (img *Image) FinitePixels() int { return len(img.sorted) }

// In reports whether (x, y) addresses a pixel.
func (img *Image) In(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

// At returns the pixel value at (x, y). Out-of-range positions yield NaN.
func (img *Image) At(x, y int) float64 {
	if !img.In(x, y) {
		return math.NaN()
	}
	return img.data[y*img.width+x]
}

// Bounds returns the region covering the whole image.
func (img *Image) Bounds() Region {
	return Region{XMax: img.width, YMax: img.height}
}

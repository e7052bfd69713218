package imagestore

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sub is a copied sub-array of an Image. Coordinates passed to its methods are
// absolute image coordinates, not offsets into the sub-array.
type Sub struct {
	Region Region
	data   []float64
}

// Sub copies the pixels of r, after clamping r to the image bounds.
func (img *Image) Sub(r Region) Sub {
	r = r.Clamp(img.width, img.height)
	s := Sub{Region: r, data: make([]float64, 0, r.Dx()*r.Dy())}
	for y := r.YMin; y < r.YMax; y++ {
		row := img.data[y*img.width+r.XMin : y*img.width+r.XMax]
		s.data = append(s.data, row...)
	}
	return s
}

// At returns the pixel at absolute position (x, y), or NaN outside the region.
func (s Sub) At(x, y int) float64 {
	if !s.Region.Contains(x, y) {
		return math.NaN()
	}
	return s.data[(y-s.Region.YMin)*s.Region.Dx()+(x-s.Region.XMin)]
}

// Row returns the values along row y across the region's columns.
func (s Sub) Row(y int) []float64 {
	if y < s.Region.YMin || y >= s.Region.YMax || s.Region.Empty() {
		return nil
	}
	off := (y - s.Region.YMin) * s.Region.Dx()
	out := make([]float64, s.Region.Dx())
	copy(out, s.data[off:off+s.Region.Dx()])
	return out
}

// Column returns the values along column x across the region's rows.
func (s Sub) Column(x int) []float64 {
	if x < s.Region.XMin || x >= s.Region.XMax || s.Region.Empty() {
		return nil
	}
	out := make([]float64, 0, s.Region.Dy())
	for y := s.Region.YMin; y < s.Region.YMax; y++ {
		out = append(out, s.At(x, y))
	}
	return out
}

// Len returns the number of pixels in the sub-array.
func (s Sub) Len() int { return len(s.data) }

// Histogram is a binned intensity distribution over [Lo, Hi].
type Histogram struct {
	Lo, Hi float64
	// Edges holds len(Counts)+1 bin boundaries.
	Edges  []float64
	Counts []float64
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return floats.Max(h.Counts)
}

// Bin returns the index of the bin containing v, clamped to the valid range.
func (h Histogram) Bin(v float64) int {
	n := len(h.Counts)
	if n == 0 || h.Hi <= h.Lo {
		return 0
	}
	i := int((v - h.Lo) / (h.Hi - h.Lo) * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Histogram bins the image after clipping every finite pixel to [lo, hi], so
// out-of-range pixels accumulate in the first and last bins.
func (img *Image) Histogram(lo, hi float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	if !(hi > lo) {
		hi = lo + 1
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	h := Histogram{Lo: lo, Hi: hi, Edges: edges}
	if len(img.sorted) == 0 {
		h.Counts = make([]float64, bins)
		return h
	}

	clipped := make([]float64, len(img.sorted))
	for i, v := range img.sorted {
		clipped[i] = math.Max(lo, math.Min(hi, v))
	}
	// stat.Histogram treats the last divider as exclusive.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	h.Counts = stat.Histogram(nil, dividers, clipped, nil)
	return h
}

// Stats summarises the finite pixels of a region.
type Stats struct {
	N        int
	Mean     float64
	StdDev   float64
	Min, Max float64
}

// Stats computes summary statistics over r, clamped to the image.
func (img *Image) Stats(r Region) Stats {
	sub := img.Sub(r)
	finite := make([]float64, 0, sub.Len())
	for _, v := range sub.data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Stats{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	}
	mean, std := stat.MeanStdDev(finite, nil)
	if len(finite) == 1 {
		std = 0
	}
	return Stats{
		N:      len(finite),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(finite),
		Max:    floats.Max(finite),
	}
}

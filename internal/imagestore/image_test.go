package imagestore

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ramp returns a w x h image where pixel (x, y) has value y*w + x.
func ramp(t *testing.T, w, h int) *Image {
	t.Helper()
	data := make([]float64, w*h)
	for i := range data {
		data[i] = float64(i)
	}
	img, err := New(w, h, data, WithUnit("Jy/beam"))
	require.NoError(t, err)
	return img
}

func TestNew_ShapeMismatch(t *testing.T) {
	_, err := New(3, 3, make([]float64, 8))
	require.ErrorIs(t, err, ErrShape)

	_, err = New(0, 3, nil)
	require.ErrorIs(t, err, ErrShape)
}

func TestNew_MinMaxIgnoresNonFinite(t *testing.T) {
	img, err := New(2, 2, []float64{math.NaN(), -3, 7, math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, -3.0, img.Min())
	assert.Equal(t, 7.0, img.Max())
	assert.Equal(t, 2, img.FinitePixels())
}

func TestAt_OriginLower(t *testing.T) {
	img := ramp(t, 4, 3)
	assert.Equal(t, 0.0, img.At(0, 0))
	assert.Equal(t, 11.0, img.At(3, 2))
	assert.True(t, math.IsNaN(img.At(4, 0)))
	assert.Equal(t, "Jy/beam", img.Unit())
}

func TestCentered_Scenario(t *testing.T) {
	r := Centered(400, 400, 250).Clamp(500, 500)
	assert.Equal(t, Region{XMin: 275, XMax: 500, YMin: 275, YMax: 500}, r)
}

func TestClamp_AlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		w, h := 1+rng.Intn(600), 1+rng.Intn(600)
		r := Centered(rng.Float64()*1400-400, rng.Float64()*1400-400, rng.Float64()*1200).Clamp(w, h)
		require.True(t, 0 <= r.XMin && r.XMin <= r.XMax && r.XMax <= w, "x bounds %v in %dx%d", r, w, h)
		require.True(t, 0 <= r.YMin && r.YMin <= r.YMax && r.YMax <= h, "y bounds %v in %dx%d", r, w, h)
	}
}

func TestSub_RowAndColumn(t *testing.T) {
	img := ramp(t, 5, 4)
	sub := img.Sub(Region{XMin: 1, XMax: 4, YMin: 1, YMax: 3})

	assert.Equal(t, 6, sub.Len())
	assert.Equal(t, []float64{6, 7, 8}, sub.Row(1))
	assert.Equal(t, []float64{7, 12}, sub.Column(2))
	assert.Nil(t, sub.Row(0))
	assert.Nil(t, sub.Column(4))
	assert.Equal(t, 13.0, sub.At(3, 2))
}

func TestSub_ClampsRegion(t *testing.T) {
	img := ramp(t, 5, 4)
	sub := img.Sub(Region{XMin: -3, XMax: 10, YMin: 2, YMax: 9})
	assert.Equal(t, Region{XMin: 0, XMax: 5, YMin: 2, YMax: 4}, sub.Region)
	assert.Equal(t, 10, sub.Len())
}

func TestHistogram_ClipsIntoEdgeBins(t *testing.T) {
	img := ramp(t, 10, 10) // values 0..99

	h := img.Histogram(10, 20, 10)
	require.Len(t, h.Counts, 10)
	require.Len(t, h.Edges, 11)

	// 0..10 clip to the first bin (11 values), 19..99 land in the last bin.
	assert.Equal(t, 11.0, h.Counts[0])
	assert.Equal(t, 81.0, h.Counts[9])
	var total float64
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 100.0, total)
	assert.Equal(t, 81.0, h.MaxCount())
}

func TestHistogram_Idempotent(t *testing.T) {
	img := ramp(t, 30, 20)
	a := img.Histogram(12.5, 400, 100)
	b := img.Histogram(12.5, 400, 100)
	assert.Equal(t, a, b)
}

func TestHistogram_Bin(t *testing.T) {
	h := Histogram{Lo: 0, Hi: 10, Counts: make([]float64, 10)}
	assert.Equal(t, 0, h.Bin(-5))
	assert.Equal(t, 3, h.Bin(3.5))
	assert.Equal(t, 9, h.Bin(10))
}

func TestStats(t *testing.T) {
	img, err := New(2, 2, []float64{1, 2, 3, math.NaN()})
	require.NoError(t, err)
	s := img.Stats(img.Bounds())
	assert.Equal(t, 3, s.N)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
}

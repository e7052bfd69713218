package fitsfile

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/fitsview/internal/fitsfile/fitstest"
)

func skyCards() []fitstest.Card {
	return []fitstest.Card{
		{Key: "BUNIT", Value: "Jy/beam", Comment: "flux unit"},
		{Key: "DATE", Value: "2023-12-04T10:00:00"},
		{Key: "TIMESYS", Value: "UTC"},
		{Key: "TELESCOP", Value: "NenuFAR"},
		{Key: "CTYPE1", Value: "RA---SIN"},
		{Key: "CTYPE2", Value: "DEC--SIN"},
		{Key: "CRPIX1", Value: 3.0},
		{Key: "CRPIX2", Value: 2.0},
		{Key: "CRVAL1", Value: 150.0},
		{Key: "CRVAL2", Value: 2.0},
		{Key: "CDELT1", Value: -0.01},
		{Key: "CDELT2", Value: 0.01},
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.fits")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0o600))
	good := fitstest.Write(t, dir, "good.FITS", fitstest.Image(2, 2, func(x, y int) float64 { return 1 }))

	tests := []struct {
		name    string
		path    string
		wantErr error
		message string
	}{
		{name: "missing", path: filepath.Join(dir, "nope.fits"), wantErr: ErrNotExist, message: "does not exist"},
		{name: "directory", path: dir, wantErr: ErrNotExist, message: "does not exist"},
		{name: "empty", path: empty, wantErr: ErrEmpty, message: "is empty"},
		{name: "extension", path: text, wantErr: ErrNotFITS, message: "is not a FITS file"},
		{name: "accepted", path: good},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.path)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			var ce *CheckError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.path, ce.Path)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestHasFITSExtension(t *testing.T) {
	t.Parallel()
	assert.True(t, HasFITSExtension("a.fits"))
	assert.True(t, HasFITSExtension("a.FIT"))
	assert.True(t, HasFITSExtension("dir/a.fts"))
	assert.False(t, HasFITSExtension("a.fits.gz"))
	assert.False(t, HasFITSExtension("fits"))
}

func TestTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "sun_map", Title("/data/obs/sun_map.2023.fits"))
	assert.Equal(t, "image", Title("image.fits"))
}

func TestLoad_Float32WithWCS(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := fitstest.Write(t, dir, "sky.fits",
		fitstest.Image(5, 3, func(x, y int) float64 { return float64(10*y + x) }, skyCards()...))

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sky", doc.Title)
	assert.Equal(t, 0, doc.HDU)
	assert.Equal(t, 5, doc.Image.Width())
	assert.Equal(t, 3, doc.Image.Height())
	assert.Equal(t, 21.0, doc.Image.At(1, 2))
	assert.Equal(t, 0.0, doc.Image.Min())
	assert.Equal(t, 24.0, doc.Image.Max())

	assert.Equal(t, "Jy/beam", doc.Meta.Unit)
	assert.Equal(t, "Jy/beam", doc.Image.Unit())
	assert.Equal(t, "2023-12-04T10:00:00", doc.Meta.Date)
	assert.Equal(t, "UTC", doc.Meta.TimeSys)
	assert.Equal(t, "NenuFAR", doc.Meta.Telescope)
	assert.Empty(t, doc.Meta.Object)

	proj := doc.Image.Projection()
	require.NotNil(t, proj)
	ra, dec := proj.PixelToWorld(2, 1)
	assert.InDelta(t, 150.0, ra, 1e-9)
	assert.InDelta(t, 2.0, dec, 1e-9)
}

func TestLoad_SqueezesDegenerateAxes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	h := fitstest.Image(4, 2, func(x, y int) float64 { return float64(x + y) })
	h.Axes = []int{4, 2, 1, 1}
	path := fitstest.Write(t, dir, "cube.fits", h)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Image.Width())
	assert.Equal(t, 2, doc.Image.Height())
	assert.Equal(t, []int{4, 2, 1, 1}, doc.Axes)
	assert.Equal(t, 4.0, doc.Image.At(3, 1))
}

func TestLoad_ScaledIntegersAndBlank(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := fitstest.Write(t, dir, "int.fits", fitstest.HDU{
		Bitpix: 16,
		Axes:   []int{2, 2},
		Data:   []float64{-1, 0, 1, 2},
		Cards: []fitstest.Card{
			{Key: "BSCALE", Value: 2.0},
			{Key: "BZERO", Value: 100.0},
			{Key: "BLANK", Value: -1},
		},
	})

	doc, err := Load(path)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(doc.Image.At(0, 0)))
	assert.Equal(t, 100.0, doc.Image.At(1, 0))
	assert.Equal(t, 102.0, doc.Image.At(0, 1))
	assert.Equal(t, 104.0, doc.Image.At(1, 1))
	assert.Equal(t, 100.0, doc.Image.Min())
	assert.Nil(t, doc.Image.Projection())
}

func TestLoad_ImageInExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := fitstest.Write(t, dir, "ext.fits",
		fitstest.HDU{Bitpix: 8, Cards: []fitstest.Card{{Key: "EXTEND", Value: true}}},
		fitstest.Image(3, 3, func(x, y int) float64 { return 7 }, fitstest.Card{Key: "BUNIT", Value: "K"}),
	)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.HDU)
	assert.Equal(t, "K", doc.Meta.Unit)
	assert.Equal(t, 7.0, doc.Image.Max())
}

func TestLoad_NoImage(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := fitstest.Write(t, dir, "flat.fits", fitstest.HDU{Bitpix: -32, Axes: []int{8}, Data: make([]float64, 8)})

	_, err := Load(path)
	require.ErrorIs(t, err, ErrNoImage)
}

func TestDecodePixels_UnsupportedBitpix(t *testing.T) {
	t.Parallel()
	_, err := decodePixels(make([]byte, 12), 24, 4, 1, 0, nil)
	require.ErrorIs(t, err, ErrBitpix)
}

func TestPrintHeader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := fitstest.Write(t, dir, "hdr.fits",
		fitstest.Image(2, 2, func(x, y int) float64 { return 0 }, skyCards()...))
	doc, err := Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintHeader(&buf, doc)
	out := buf.String()
	assert.Contains(t, out, "Header of the file: "+path)
	assert.Contains(t, out, "==================================================")
	assert.Contains(t, out, "BUNIT   = 'Jy/beam' / flux unit")
	assert.Contains(t, out, "TELESCOP= 'NenuFAR'")
}

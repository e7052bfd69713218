package fitsfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/wcs"
)

// ErrNoImage reports a file without any HDU holding a 2-D image.
var ErrNoImage = errors.New("no 2-D image HDU")

// ErrBitpix reports an unsupported BITPIX value.
var ErrBitpix = errors.New("unsupported BITPIX")

// Metadata holds the header fields shown alongside the image. Missing keys are
// left empty.
type Metadata struct {
	Unit       string
	Date       string
	TimeSys    string
	Telescope  string
	Instrument string
	Object     string
}

// Card is a printable header record.
type Card struct {
	Name    string
	Value   string
	Comment string
}

// Document is a loaded FITS image with the header data the viewer needs.
type Document struct {
	Path  string
	Title string
	// HDU is the index of the image HDU that was selected.
	HDU   int
	Axes  []int
	Image *imagestore.Image
	Meta  Metadata
	Cards []Card
}

// Load opens path, decodes the first HDU holding a 2-D image and closes the
// file before returning. Degenerate axes (length 1) are squeezed out; for
// cubes only the first plane is kept.
func Load(path string) (*Document, error) {
	logrus.Debugf("Opening FITS file: %s", path)
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer f.Close()

	for i, hdu := range f.HDUs() {
		img, ok := hdu.(fitsio.Image)
		if !ok {
			continue
		}
		hdr := img.Header()
		width, height, ok := planeShape(hdr.Axes())
		if !ok {
			logrus.Debugf("HDU %d has axes %v; skipping", i, hdr.Axes())
			continue
		}
		doc, err := decodeImage(path, i, img, width, height)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrNoImage)
}

// planeShape returns the first two non-degenerate axis lengths.
func planeShape(axes []int) (int, int, bool) {
	dims := make([]int, 0, 2)
	for _, n := range axes {
		if n > 1 {
			dims = append(dims, n)
		}
		if len(dims) == 2 {
			return dims[0], dims[1], true
		}
	}
	return 0, 0, false
}

func decodeImage(path string, index int, img fitsio.Image, width, height int) (*Document, error) {
	hdr := img.Header()
	view := headerView{hdr: hdr}

	bscale := floatOr(view, "BSCALE", 1)
	bzero := floatOr(view, "BZERO", 0)
	var blank *int64
	if v, ok := view.Float("BLANK"); ok {
		b := int64(v)
		blank = &b
	}

	data, err := decodePixels(img.Raw(), hdr.Bitpix(), width*height, bscale, bzero, blank)
	if err != nil {
		return nil, fmt.Errorf("%s HDU %d: %w", path, index, err)
	}

	meta := Metadata{
		Unit:       stringOr(view, "BUNIT"),
		Date:       stringOr(view, "DATE"),
		TimeSys:    stringOr(view, "TIMESYS"),
		Telescope:  stringOr(view, "TELESCOP"),
		Instrument: stringOr(view, "INSTRUME"),
		Object:     stringOr(view, "OBJECT"),
	}

	opts := []imagestore.Option{imagestore.WithUnit(meta.Unit)}
	proj, err := wcs.FromHeader(view, len(hdr.Axes()))
	switch {
	case err == nil:
		opts = append(opts, imagestore.WithProjection(proj))
	case errors.Is(err, wcs.ErrNoWCS):
		logrus.Debugf("%s: no WCS keywords, sky coordinates disabled", path)
	default:
		return nil, err
	}

	pix, err := imagestore.New(width, height, data, opts...)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Loaded %s HDU %d: %dx%d bitpix=%d unit=%q", path, index, width, height, hdr.Bitpix(), meta.Unit)
	return &Document{
		Path:  path,
		Title: Title(path),
		HDU:   index,
		Axes:  append([]int(nil), hdr.Axes()...),
		Image: pix,
		Meta:  meta,
		Cards: cards(hdr),
	}, nil
}

// decodePixels converts the big-endian data unit into physical values,
// applying BSCALE/BZERO and mapping BLANK (integer images only) to NaN.
func decodePixels(raw []byte, bitpix, n int, bscale, bzero float64, blank *int64) ([]float64, error) {
	size := bitpix / 8
	if size < 0 {
		size = -size
	}
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
	default:
		return nil, fmt.Errorf("%w: %d", ErrBitpix, bitpix)
	}
	if len(raw) < n*size {
		return nil, fmt.Errorf("data unit holds %d bytes, need %d", len(raw), n*size)
	}

	out := make([]float64, n)
	be := binary.BigEndian
	for i := 0; i < n; i++ {
		b := raw[i*size : (i+1)*size]
		var v float64
		var iv int64
		isInt := true
		switch bitpix {
		case 8:
			iv = int64(b[0])
		case 16:
			iv = int64(int16(be.Uint16(b)))
		case 32:
			iv = int64(int32(be.Uint32(b)))
		case 64:
			iv = int64(be.Uint64(b))
		case -32:
			v = float64(math.Float32frombits(be.Uint32(b)))
			isInt = false
		case -64:
			v = math.Float64frombits(be.Uint64(b))
			isInt = false
		}
		if isInt {
			if blank != nil && iv == *blank {
				out[i] = math.NaN()
				continue
			}
			v = float64(iv)
		}
		out[i] = bzero + bscale*v
	}
	return out, nil
}

// headerView adapts a fitsio header to typed keyword lookups.
type headerView struct {
	hdr *fitsio.Header
}

func (h headerView) Float(key string) (float64, bool) {
	c := h.hdr.Get(key)
	if c == nil {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func (h headerView) String(key string) (string, bool) {
	c := h.hdr.Get(key)
	if c == nil {
		return "", false
	}
	if s, ok := c.Value.(string); ok {
		return strings.TrimSpace(s), true
	}
	return formatValue(c.Value), true
}

func floatOr(h headerView, key string, def float64) float64 {
	if v, ok := h.Float(key); ok {
		return v
	}
	return def
}

func stringOr(h headerView, key string) string {
	s, _ := h.String(key)
	return s
}

func cards(hdr *fitsio.Header) []Card {
	keys := hdr.Keys()
	out := make([]Card, 0, len(keys))
	for i := range keys {
		c := hdr.Card(i)
		if c == nil {
			continue
		}
		out = append(out, Card{Name: c.Name, Value: formatValue(c.Value), Comment: strings.TrimSpace(c.Comment)})
	}
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return "'" + strings.TrimRight(x, " ") + "'"
	case bool:
		if x {
			return "T"
		}
		return "F"
	default:
		return fmt.Sprint(x)
	}
}

// Package colormap maps normalised intensities onto colours.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const lutSize = 256

// Default is the colormap used when none is configured.
const Default = "viridis"

// Bad is the colour of pixels without a finite value.
//
//nolint:gochecknoglobals // Immutable colour constant.
var Bad = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}

//nolint:gochecknoglobals // Immutable stop tables.
var stops = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"gray":    {"#000000", "#ffffff"},
}

// Map is a sampled colormap.
type Map struct {
	name string
	lut  [lutSize]color.RGBA
}

// Names lists the available colormaps in sorted order.
func Names() []string {
	names := make([]string, 0, len(stops))
	for n := range stops {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the colormap called name, case-insensitively.
func Lookup(name string) (*Map, error) {
	hexes, ok := stops[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	cs := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("MustParseHex: " + err.Error())
		}
		cs[i] = c
	}
	m := &Map{name: strings.ToLower(name)}
	for i := range m.lut {
		m.lut[i] = toRGBA(sample(cs, float64(i)/(lutSize-1)))
	}
	return m, nil
}

// sample blends the two stops around t in CIE-Lab.
func sample(cs []colorful.Color, t float64) colorful.Color {
	if len(cs) == 1 {
		return cs[0]
	}
	pos := t * float64(len(cs)-1)
	i := int(math.Floor(pos))
	if i >= len(cs)-1 {
		return cs[len(cs)-1]
	}
	return cs[i].BlendLab(cs[i+1], pos-float64(i)).Clamped()
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Name returns the colormap name.
func (m *Map) Name() string { return m.name }

// At returns the colour for t in [0, 1]. Values outside are clamped; NaN maps
// to Bad.
func (m *Map) At(t float64) color.RGBA {
	if math.IsNaN(t) {
		return Bad
	}
	t = math.Max(0, math.Min(1, t))
	return m.lut[int(math.Round(t*(lutSize-1)))]
}

// Color normalises v linearly over [vmin, vmax] and returns its colour.
func (m *Map) Color(v, vmin, vmax float64) color.RGBA {
	return m.At(Normalize(v, vmin, vmax))
}

// Normalize maps v to [0, 1] over [vmin, vmax]. Infinite values saturate and
// NaN stays NaN.
func Normalize(v, vmin, vmax float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if vmax <= vmin {
		if v < vmin {
			return 0
		}
		return 1
	}
	return math.Max(0, math.Min(1, (v-vmin)/(vmax-vmin)))
}

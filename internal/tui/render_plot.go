package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

// Eighth blocks, indexed by how many eighths of the cell are filled.
//
//nolint:gochecknoglobals // Immutable glyph tables.
var (
	upBlocks    = []rune(" ▁▂▃▄▅▆▇█")
	rightBlocks = []rune(" ▏▎▍▌▋▊▉█")
)

// canvas is a rune grid with one highlighted column or row.
type canvas struct {
	w, h      int
	cells     [][]rune
	hiCol     int
	hiRow     int
	baseColor string
	hiColor   string
}

func newCanvas(w, h int, baseColor, hiColor string) *canvas {
	c := &canvas{w: w, h: h, hiCol: -1, hiRow: -1, baseColor: baseColor, hiColor: hiColor}
	c.cells = make([][]rune, h)
	for j := range c.cells {
		c.cells[j] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *canvas) String() string {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(c.baseColor))
	hi := lipgloss.NewStyle().Foreground(lipgloss.Color(c.hiColor))
	lines := make([]string, c.h)
	for j, row := range c.cells {
		if j == c.hiRow {
			lines[j] = hi.Render(string(row))
			continue
		}
		if c.hiCol < 0 || c.hiCol >= c.w {
			lines[j] = base.Render(string(row))
			continue
		}
		lines[j] = base.Render(string(row[:c.hiCol])) +
			hi.Render(string(row[c.hiCol])) +
			base.Render(string(row[c.hiCol+1:]))
	}
	return strings.Join(lines, "\n")
}

// fraction maps v onto [0, 1] over [lo, hi].
func fraction(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

// profileValue returns the profile sample at pixel coordinate coord.
func profileValue(p viewer.Profile, coord int) (float64, bool) {
	if len(p.Coords) == 0 {
		return 0, false
	}
	i := coord - p.Coords[0]
	if i < 0 || i >= len(p.Values) {
		return 0, false
	}
	v := p.Values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// renderRowProfile draws the row profile as vertical bars under the zoom
// panel's columns. The column under the cursor is highlighted.
func renderRowProfile(area rect, g grid, p viewer.Profile, cursorX int) string {
	c := newCanvas(area.W, area.H, accentColor, overlayColor)
	for i := 0; i < g.area.W; i++ {
		cx := g.area.X + i
		x, _ := g.toData(cx, g.area.Y)
		px := int(math.Floor(x))
		if px == cursorX {
			c.hiCol = cx - area.X
		}
		v, ok := profileValue(p, px)
		if !ok {
			continue
		}
		eighths := int(math.Round(fraction(v, g.y0, g.y1) * float64(g.area.H*8)))
		for j := 0; j < g.area.H; j++ {
			c.set(cx-area.X, g.area.Y+g.area.H-1-j-area.Y, upBlocks[clampInt(eighths-8*j, 0, 8)])
		}
	}
	return c.String()
}

// renderColumnProfile draws the column profile as horizontal bars beside the
// zoom panel's rows. The row under the cursor is highlighted.
func renderColumnProfile(area rect, g grid, p viewer.Profile, cursorY int) string {
	c := newCanvas(area.W, area.H, accentColor, overlayColor)
	for j := 0; j < g.area.H; j++ {
		cy := g.area.Y + j
		_, y := g.toData(g.area.X, cy)
		py := int(math.Floor(y))
		if py == cursorY {
			c.hiRow = cy - area.Y
		}
		v, ok := profileValue(p, py)
		if !ok {
			continue
		}
		eighths := int(math.Round(fraction(v, g.x0, g.x1) * float64(g.area.W*8)))
		for i := 0; i < g.area.W; i++ {
			c.set(g.area.X+i-area.X, cy-area.Y, rightBlocks[clampInt(eighths-8*i, 0, 8)])
		}
	}
	return c.String()
}

// renderHistogram draws log10(1+count) bars over the clip range. Each column
// shows the fullest bin it covers. The marker, if any, is a highlighted column.
func renderHistogram(area rect, g grid, h imagestore.Histogram, ov viewer.Overlays) string {
	c := newCanvas(area.W, area.H, accentColor, markerColor)
	if len(h.Counts) == 0 {
		return c.String()
	}
	span := g.x1 - g.x0
	for i := 0; i < g.area.W; i++ {
		lo := g.x0 + float64(i)/float64(g.area.W)*span
		hi := g.x0 + float64(i+1)/float64(g.area.W)*span
		b0, b1 := h.Bin(lo), h.Bin(math.Nextafter(hi, math.Inf(-1)))
		count := 0.0
		for b := b0; b <= b1; b++ {
			count = math.Max(count, h.Counts[b])
		}
		v := math.Log10(1 + count)
		eighths := int(math.Round(fraction(v, g.y0, g.y1) * float64(g.area.H*8)))
		for j := 0; j < g.area.H; j++ {
			c.set(g.area.X+i-area.X, g.area.Y+g.area.H-1-j-area.Y, upBlocks[clampInt(eighths-8*j, 0, 8)])
		}
	}
	if m, ok := ov.Marker(); ok {
		if cx := g.col(m.Value); cx >= g.area.X && cx < g.area.X+g.area.W {
			col := cx - area.X
			c.hiCol = col
			for j := 0; j < area.H; j++ {
				if c.cells[j][col] == ' ' {
					c.cells[j][col] = '│'
				}
			}
		}
	}
	return c.String()
}

package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/fitsview/internal/colormap"
	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

type cell struct{ x, y int }

// mark is an overlay glyph drawn over a heatmap cell.
type mark struct {
	glyph rune
	color string
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// renderHeatmap draws the image window of g into area with two pixels per
// cell (upper half block), then the panel's overlays on top.
func renderHeatmap(img *imagestore.Image, area rect, g grid, c viewer.ContrastRange, cmap *colormap.Map, ov viewer.Overlays) string {
	marks := overlayCells(g, ov)
	lines := make([]string, area.H)
	for j := 0; j < area.H; j++ {
		cy := area.Y + j
		var b strings.Builder
		for i := 0; i < area.W; i++ {
			cx := area.X + i
			if !g.area.contains(cx, cy) {
				b.WriteByte(' ')
				continue
			}
			x, _ := g.toData(cx, cy)
			px := int(math.Floor(x))
			sub := 2 * (cy - g.area.Y)
			top := cmap.Color(img.At(px, int(math.Floor(g.subRowY(sub)))), c.VMin, c.VMax)
			bottom := cmap.Color(img.At(px, int(math.Floor(g.subRowY(sub+1)))), c.VMin, c.VMax)
			if mk, ok := marks[cell{cx, cy}]; ok {
				b.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(mk.color)).
					Background(hexColor(bottom)).
					Render(string(mk.glyph)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(hexColor(top)).Background(hexColor(bottom)).Render("▀"))
		}
		lines[j] = b.String()
	}
	return strings.Join(lines, "\n")
}

// overlayCells maps the rectangle and crosshair of ov onto cells of g. The
// crosshair is drawn over the rectangle.
func overlayCells(g grid, ov viewer.Overlays) map[cell]mark {
	marks := make(map[cell]mark)
	if g.area.empty() {
		return marks
	}
	lastCol, lastRow := g.area.X+g.area.W-1, g.area.Y+g.area.H-1

	for _, r := range ov.Rects() {
		reg := r.Region
		if reg.Empty() {
			continue
		}
		c0 := clampInt(g.col(float64(reg.XMin)+0.5), g.area.X, lastCol)
		c1 := clampInt(g.col(float64(reg.XMax)-0.5), g.area.X, lastCol)
		r0 := clampInt(g.row(float64(reg.YMax)-0.5), g.area.Y, lastRow)
		r1 := clampInt(g.row(float64(reg.YMin)+0.5), g.area.Y, lastRow)
		for x := c0; x <= c1; x++ {
			marks[cell{x, r0}] = mark{'─', rectColor}
			marks[cell{x, r1}] = mark{'─', rectColor}
		}
		for y := r0; y <= r1; y++ {
			marks[cell{c0, y}] = mark{'│', rectColor}
			marks[cell{c1, y}] = mark{'│', rectColor}
		}
		marks[cell{c0, r0}] = mark{'┌', rectColor}
		marks[cell{c1, r0}] = mark{'┐', rectColor}
		marks[cell{c0, r1}] = mark{'└', rectColor}
		marks[cell{c1, r1}] = mark{'┘', rectColor}
	}

	for _, l := range ov.Lines() {
		switch l.Orientation {
		case viewer.Vertical:
			cx := g.col(l.Pos + 0.5)
			if cx < g.area.X || cx > lastCol {
				continue
			}
			for y := g.area.Y; y <= lastRow; y++ {
				marks[cell{cx, y}] = crossing(marks[cell{cx, y}], '│')
			}
		case viewer.Horizontal:
			cy := g.row(l.Pos + 0.5)
			if cy < g.area.Y || cy > lastRow {
				continue
			}
			for x := g.area.X; x <= lastCol; x++ {
				marks[cell{x, cy}] = crossing(marks[cell{x, cy}], '─')
			}
		}
	}
	return marks
}

// crossing combines a crosshair line glyph with what is already in the cell.
func crossing(prev mark, glyph rune) mark {
	if prev.color == overlayColor && prev.glyph != glyph {
		return mark{'┼', overlayColor}
	}
	return mark{glyph, overlayColor}
}

package tui

import "math"

// rect is a block of terminal cells.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r rect) empty() bool { return r.W <= 0 || r.H <= 0 }

// grid maps the cells of area onto the data window [x0,x1] x [y0,y1]. Data y
// grows upward, so the top row of cells holds y1.
type grid struct {
	area           rect
	x0, x1, y0, y1 float64
}

// toData returns the data position at the centre of cell (cx, cy).
func (g grid) toData(cx, cy int) (float64, float64) {
	fx := (float64(cx-g.area.X) + 0.5) / float64(g.area.W)
	fy := (float64(cy-g.area.Y) + 0.5) / float64(g.area.H)
	return g.x0 + fx*(g.x1-g.x0), g.y1 - fy*(g.y1-g.y0)
}

// col returns the cell column holding data x. It may lie outside the area.
func (g grid) col(x float64) int {
	if g.x1 == g.x0 || g.area.W == 0 {
		return g.area.X
	}
	return g.area.X + int(math.Floor((x-g.x0)/(g.x1-g.x0)*float64(g.area.W)))
}

// row returns the cell row holding data y. It may lie outside the area.
func (g grid) row(y float64) int {
	if g.y1 == g.y0 || g.area.H == 0 {
		return g.area.Y
	}
	return g.area.Y + int(math.Floor((g.y1-y)/(g.y1-g.y0)*float64(g.area.H)))
}

// toCell returns the cell holding (x, y) and whether it lies in the area.
func (g grid) toCell(x, y float64) (int, int, bool) {
	c, r := g.col(x), g.row(y)
	return c, r, g.area.contains(c, r)
}

// subRowY returns the data y at the centre of half-row s of the area, counting
// from the top. Heatmaps draw two half-rows per cell.
func (g grid) subRowY(s int) float64 {
	return g.y1 - (float64(s)+0.5)/float64(2*g.area.H)*(g.y1-g.y0)
}

// fitImage returns the top-left part of area that shows a w x h pixel window
// with square pixels, counting a cell as one pixel wide and two half-rows tall.
func fitImage(area rect, w, h float64) rect {
	if area.empty() || w <= 0 || h <= 0 {
		return rect{X: area.X, Y: area.Y}
	}
	scale := math.Min(float64(area.W)/w, float64(2*area.H)/h)
	cols := clampInt(int(math.Round(w*scale)), 1, area.W)
	rows := clampInt(int(math.Round(h*scale/2)), 1, area.H)
	return rect{X: area.X, Y: area.Y, W: cols, H: rows}
}

// sliderValue maps cell column cx of a one-row bar onto [lo, hi], with the
// first and last cells hitting the bounds exactly.
func sliderValue(bar rect, cx int, lo, hi float64) float64 {
	if bar.W <= 1 {
		return lo
	}
	f := float64(clampInt(cx-bar.X, 0, bar.W-1)) / float64(bar.W-1)
	return lo + f*(hi-lo)
}

// sliderPercent returns the filled fraction of a slider at v.
func sliderPercent(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package imagestore

import (
	"fmt"
	"math"
)

// Region is a half-open pixel rectangle [XMin,XMax) x [YMin,YMax).
type Region struct {
	XMin, XMax int
	YMin, YMax int
}

// Centered returns the square region of side width centred on (x, y), before
// any clamping. Bounds truncate toward zero.
func Centered(x, y, width float64) Region {
	half := width / 2
	return Region{
		XMin: int(math.Trunc(x - half)),
		XMax: int(math.Trunc(x + half)),
		YMin: int(math.Trunc(y - half)),
		YMax: int(math.Trunc(y + half)),
	}
}

// Clamp truncates r to [0,width) x [0,height). Each axis is clamped
// independently, so the result may be narrower than r but never inverted.
func (r Region) Clamp(width, height int) Region {
	r.XMin = clampInt(r.XMin, 0, width)
	r.XMax = clampInt(r.XMax, r.XMin, width)
	r.YMin = clampInt(r.YMin, 0, height)
	r.YMax = clampInt(r.YMax, r.YMin, height)
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Dx returns the region width in pixels.
func (r Region) Dx() int { return r.XMax - r.XMin }

// Dy returns the region height in pixels.
func (r Region) Dy() int { return r.YMax - r.YMin }

// Empty reports whether the region holds no pixels.
func (r Region) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Contains reports whether pixel (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.XMin && x < r.XMax && y >= r.YMin && y < r.YMax
}

// Center returns the geometric centre of the region.
func (r Region) Center() (float64, float64) {
	return float64(r.XMin+r.XMax) / 2, float64(r.YMin+r.YMax) / 2
}

// ClampPoint moves (x, y) to the nearest pixel inside the region.
func (r Region) ClampPoint(x, y int) (int, int) {
	if r.Empty() {
		return r.XMin, r.YMin
	}
	return clampInt(x, r.XMin, r.XMax-1), clampInt(y, r.YMin, r.YMax-1)
}

func (r Region) String() string {
	return fmt.Sprintf("[%d:%d, %d:%d]", r.XMin, r.XMax, r.YMin, r.YMax)
}

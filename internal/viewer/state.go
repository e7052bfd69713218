package viewer

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ensigniasec/fitsview/internal/imagestore"
)

const (
	DefaultZoomWidth = 250.0
	DefaultBins      = 100
	// Epsilon is the minimum gap between VMin and VMax, and the slider step.
	Epsilon = 0.001
	// ScrollFactor scales the zoom width per scroll step.
	ScrollFactor = 2.0
	MinZoomWidth = 2.0
	// profileHeadroom stretches the top of a profile's value axis.
	profileHeadroom = 1.1
)

// Options configures a Session.
type Options struct {
	ZoomWidth float64 `validate:"gte=2"`
	Bins      int     `validate:"gte=1,lte=4096"`
}

// ZoomState is the zoom window shown in the zoom panel and outlined on the
// main panel, plus the cursor the profiles are taken through.
type ZoomState struct {
	Region imagestore.Region
	// Width is the requested side of the zoom window before clamping.
	Width float64
	// CenterX, CenterY is the requested centre of the zoom window.
	CenterX, CenterY float64
	PosX, PosY       int
}

// ContrastRange is the display clip range. VMax >= VMin + Epsilon always.
type ContrastRange struct {
	VMin, VMax float64
}

// Profile is a 1-D intensity slice through the cursor.
type Profile struct {
	// Coords holds the pixel coordinate of each value along the slice axis.
	Coords []int
	Values []float64
	// Lo and Hi bound the value axis.
	Lo, Hi float64
}

// Profiles holds the row (along x) and column (along y) slices.
type Profiles struct {
	Row    Profile
	Column Profile
}

// Readout describes the pixel under the pointer.
type Readout struct {
	Valid bool
	X, Y  int
	Value float64
	World string
}

// Axes is the data range a panel displays. Y grows upward.
type Axes struct {
	X0, X1 float64
	Y0, Y1 float64
}

func newProfile(start int, values []float64) Profile {
	p := Profile{Values: values, Coords: make([]int, len(values))}
	for i := range values {
		p.Coords[i] = start + i
	}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		p.Lo, p.Hi = 0, 1
		return p
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	p.Lo, p.Hi = lo, profileUpper(lo, hi)
	return p
}

// profileUpper returns max*1.1, falling back to a positive span when that
// would not lie above lo (flat or negative slices).
func profileUpper(lo, hi float64) float64 {
	up := hi * profileHeadroom
	if up > lo && up >= hi {
		return up
	}
	up = hi + 0.1*math.Abs(hi)
	if up > lo {
		return up
	}
	return lo + 1
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// pixel truncates a data coordinate toward zero.
func pixel(v float64) int {
	return int(math.Trunc(v))
}

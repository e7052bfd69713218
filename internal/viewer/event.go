package viewer

import (
	"fmt"
	"strings"
)

// Panel identifies the view an event originated from.
type Panel int

const (
	PanelNone Panel = iota
	PanelMain
	PanelZoom
	PanelRowProfile
	PanelColumnProfile
	PanelHistogram
	PanelVMinSlider
	PanelVMaxSlider
	PanelZoomSlider
)

func (p Panel) String() string {
	switch p {
	case PanelMain:
		return "main"
	case PanelZoom:
		return "zoom"
	case PanelRowProfile:
		return "row-profile"
	case PanelColumnProfile:
		return "column-profile"
	case PanelHistogram:
		return "histogram"
	case PanelVMinSlider:
		return "vmin-slider"
	case PanelVMaxSlider:
		return "vmax-slider"
	case PanelZoomSlider:
		return "zoom-slider"
	default:
		return "none"
	}
}

// EventKind classifies pointer input.
type EventKind int

const (
	EventPress EventKind = iota
	EventScroll
	EventMove
	EventDrag
)

func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventScroll:
		return "scroll"
	case EventMove:
		return "move"
	case EventDrag:
		return "drag"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Button is the pointer button of a press or drag.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// ScrollDirection is the direction of a scroll event. In narrows the zoom
// window, Out widens it.
type ScrollDirection int

const (
	ScrollIn ScrollDirection = iota
	ScrollOut
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollIn:
		return "in"
	case ScrollOut:
		return "out"
	default:
		return fmt.Sprintf("ScrollDirection(%d)", int(d))
	}
}

// Event is one pointer event already resolved to a panel. X and Y are data
// coordinates of that panel: pixel coordinates for image panels, intensity
// for the histogram x axis and slider values for sliders.
type Event struct {
	Kind      EventKind
	Panel     Panel
	Button    Button
	Direction ScrollDirection
	X, Y      float64
}

// Redraw is the set of views an update invalidated.
type Redraw uint16

const (
	RedrawMain Redraw = 1 << iota
	RedrawZoom
	RedrawRowProfile
	RedrawColumnProfile
	RedrawHistogram
	RedrawSliders
	RedrawReadout

	RedrawProfiles = RedrawRowProfile | RedrawColumnProfile
	RedrawAll      = RedrawMain | RedrawZoom | RedrawProfiles | RedrawHistogram | RedrawSliders | RedrawReadout
)

// Has reports whether every bit of o is set in r.
func (r Redraw) Has(o Redraw) bool { return r&o == o && o != 0 }

func (r Redraw) String() string {
	if r == 0 {
		return "none"
	}
	names := []struct {
		bit  Redraw
		name string
	}{
		{RedrawMain, "main"},
		{RedrawZoom, "zoom"},
		{RedrawRowProfile, "row-profile"},
		{RedrawColumnProfile, "column-profile"},
		{RedrawHistogram, "histogram"},
		{RedrawSliders, "sliders"},
		{RedrawReadout, "readout"},
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if r&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

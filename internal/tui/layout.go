package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/fitsview/internal/viewer"
)

// layout places the linked panels on the terminal. Every rect is a plot area;
// titles sit on the line above it.
type layout struct {
	width, height int
	ok            bool

	leftWidth, midWidth, topHeight int

	main, zoom, rowProfile, colProfile, stats rect
	histogram                                 rect
	sliders                                   [sliderCount]rect
	info                                      rect
}

//nolint:gochecknoglobals // Fixed slider order.
var sliderPanels = [sliderCount]viewer.Panel{viewer.PanelVMinSlider, viewer.PanelVMaxSlider, viewer.PanelZoomSlider}

func newLayout(width, height int) layout {
	l := layout{width: width, height: height}
	if width < minWidth || height < minHeight {
		return l
	}
	l.ok = true
	l.topHeight = height - bottomLines - footerLines
	l.leftWidth = (width - columnProfileWidth) / 2
	l.midWidth = width - columnProfileWidth - l.leftWidth

	upperHeight := l.topHeight - rowProfileLines - titleLines
	lowerY := l.topHeight - rowProfileLines + titleLines
	rightX := l.leftWidth + l.midWidth

	l.main = rect{X: 0, Y: titleLines, W: l.leftWidth - panelGap, H: l.topHeight - titleLines}
	l.zoom = rect{X: l.leftWidth, Y: titleLines, W: l.midWidth - panelGap, H: upperHeight}
	l.rowProfile = rect{X: l.leftWidth, Y: lowerY, W: l.midWidth - panelGap, H: rowProfileLines - titleLines}
	l.colProfile = rect{X: rightX, Y: titleLines, W: columnProfileWidth, H: upperHeight}
	l.stats = rect{X: rightX, Y: lowerY, W: columnProfileWidth, H: rowProfileLines - titleLines}

	bottomY := l.topHeight + titleLines
	l.histogram = rect{X: 0, Y: bottomY, W: l.leftWidth - panelGap, H: bottomLines - titleLines}
	barWidth := width - l.leftWidth - sliderLabelWidth - sliderValueWidth
	for i := range l.sliders {
		l.sliders[i] = rect{X: l.leftWidth + sliderLabelWidth, Y: bottomY + i, W: barWidth, H: 1}
	}
	l.info = rect{X: l.leftWidth, Y: bottomY + sliderCount + 1, W: width - l.leftWidth, H: bottomLines - titleLines - sliderCount - 1}
	return l
}

// imageGrid maps an image panel onto the session's axes for it, keeping pixels
// square.
func (l layout) imageGrid(s *viewer.Session, p viewer.Panel) grid {
	area := l.main
	if p == viewer.PanelZoom {
		area = l.zoom
	}
	ax := s.Axes(p)
	return grid{
		area: fitImage(area, ax.X1-ax.X0, ax.Y1-ax.Y0),
		x0:   ax.X0, x1: ax.X1, y0: ax.Y0, y1: ax.Y1,
	}
}

// grid returns the cell to data mapping of panel p. The profiles share the
// zoom panel's pixel axis so that their columns and rows line up with it.
func (l layout) grid(s *viewer.Session, p viewer.Panel) grid {
	switch p {
	case viewer.PanelMain, viewer.PanelZoom:
		return l.imageGrid(s, p)
	case viewer.PanelRowProfile:
		zg := l.imageGrid(s, viewer.PanelZoom)
		ax := s.Axes(p)
		area := rect{X: zg.area.X, Y: l.rowProfile.Y, W: zg.area.W, H: l.rowProfile.H}
		return grid{area: area, x0: ax.X0, x1: ax.X1, y0: ax.Y0, y1: ax.Y1}
	case viewer.PanelColumnProfile:
		zg := l.imageGrid(s, viewer.PanelZoom)
		ax := s.Axes(p)
		area := rect{X: l.colProfile.X, Y: zg.area.Y, W: l.colProfile.W, H: zg.area.H}
		return grid{area: area, x0: ax.X0, x1: ax.X1, y0: ax.Y0, y1: ax.Y1}
	case viewer.PanelHistogram:
		ax := s.Axes(p)
		return grid{area: l.histogram, x0: ax.X0, x1: ax.X1, y0: ax.Y0, y1: ax.Y1}
	default:
		return grid{}
	}
}

// hit returns the panel under cell (cx, cy).
func (l layout) hit(s *viewer.Session, cx, cy int) viewer.Panel {
	if !l.ok {
		return viewer.PanelNone
	}
	for _, p := range []viewer.Panel{viewer.PanelMain, viewer.PanelZoom, viewer.PanelHistogram} {
		if l.grid(s, p).area.contains(cx, cy) {
			return p
		}
	}
	for i, bar := range l.sliders {
		if bar.contains(cx, cy) {
			return sliderPanels[i]
		}
	}
	return viewer.PanelNone
}

// dataAt converts cell (cx, cy) into panel p's data coordinates. Sliders map
// the column onto their current range.
func (l layout) dataAt(s *viewer.Session, p viewer.Panel, cx, cy int) (float64, float64) {
	for i, sp := range sliderPanels {
		if sp == p {
			ax := s.Axes(p)
			return sliderValue(l.sliders[i], cx, ax.X0, ax.X1), 0
		}
	}
	return l.grid(s, p).toData(cx, cy)
}

// resolve turns a mouse message into a panel-resolved session event. drag is
// the slider being dragged, if any; motion while dragging is routed to it even
// when the pointer leaves the bar.
func (l layout) resolve(s *viewer.Session, msg tea.MouseMsg, drag viewer.Panel) (viewer.Event, bool) {
	if !l.ok {
		return viewer.Event{}, false
	}
	if msg.Action == tea.MouseActionMotion && drag != viewer.PanelNone {
		x, y := l.dataAt(s, drag, msg.X, msg.Y)
		return viewer.Event{Kind: viewer.EventDrag, Panel: drag, X: x, Y: y}, true
	}

	p := l.hit(s, msg.X, msg.Y)
	if p == viewer.PanelNone {
		return viewer.Event{}, false
	}
	x, y := l.dataAt(s, p, msg.X, msg.Y)
	ev := viewer.Event{Panel: p, X: x, Y: y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		ev.Kind, ev.Direction = viewer.EventScroll, viewer.ScrollIn
	case msg.Button == tea.MouseButtonWheelDown:
		ev.Kind, ev.Direction = viewer.EventScroll, viewer.ScrollOut
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ev.Kind, ev.Button = viewer.EventPress, viewer.ButtonPrimary
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		ev.Kind, ev.Button = viewer.EventPress, viewer.ButtonSecondary
	case msg.Action == tea.MouseActionMotion:
		ev.Kind = viewer.EventMove
	default:
		return viewer.Event{}, false
	}
	return ev, true
}

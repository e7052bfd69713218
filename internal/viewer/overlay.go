package viewer

import "github.com/ensigniasec/fitsview/internal/imagestore"

// Orientation of an overlay line.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Line is a full-span overlay line at data position Pos.
type Line struct {
	Orientation Orientation
	Pos         float64
}

// Crosshair marks a cursor position with one horizontal and one vertical line.
type Crosshair struct {
	X, Y float64
}

// Lines returns the two lines that make up the crosshair.
func (c Crosshair) Lines() [2]Line {
	return [2]Line{
		{Orientation: Horizontal, Pos: c.Y},
		{Orientation: Vertical, Pos: c.X},
	}
}

// Rect outlines the zoom window on the main panel.
type Rect struct {
	Region imagestore.Region
}

// Marker is a vertical line with a value label, drawn on the histogram.
type Marker struct {
	Value float64
	Label string
}

// Overlays holds the transient graphics of one panel. Each slot holds at most
// one artifact; the Replace methods swap it, so repeated interactions never
// accumulate stale lines or rectangles.
type Overlays struct {
	crosshair *Crosshair
	rect      *Rect
	marker    *Marker
}

// ReplaceCrosshair removes the current crosshair, if any, and installs c.
func (o *Overlays) ReplaceCrosshair(c Crosshair) { o.crosshair = &c }

// ReplaceRect removes the current rectangle, if any, and installs r.
func (o *Overlays) ReplaceRect(r Rect) { o.rect = &r }

// ReplaceMarker removes the current marker line and label, if any, and installs m.
func (o *Overlays) ReplaceMarker(m Marker) { o.marker = &m }

// ClearMarker removes the marker line and label.
func (o *Overlays) ClearMarker() { o.marker = nil }

// Clear removes every artifact.
func (o *Overlays) Clear() { *o = Overlays{} }

// Crosshair returns the current crosshair.
func (o Overlays) Crosshair() (Crosshair, bool) {
	if o.crosshair == nil {
		return Crosshair{}, false
	}
	return *o.crosshair, true
}

// Rect returns the current rectangle.
func (o Overlays) Rect() (Rect, bool) {
	if o.rect == nil {
		return Rect{}, false
	}
	return *o.rect, true
}

// Marker returns the current histogram marker.
func (o Overlays) Marker() (Marker, bool) {
	if o.marker == nil {
		return Marker{}, false
	}
	return *o.marker, true
}

// Lines lists every overlay line currently attached to the panel.
func (o Overlays) Lines() []Line {
	var lines []Line
	if o.crosshair != nil {
		cl := o.crosshair.Lines()
		lines = append(lines, cl[:]...)
	}
	if o.marker != nil {
		lines = append(lines, Line{Orientation: Vertical, Pos: o.marker.Value})
	}
	return lines
}

// Rects lists every overlay rectangle currently attached to the panel.
func (o Overlays) Rects() []Rect {
	if o.rect == nil {
		return nil
	}
	return []Rect{*o.rect}
}

// Texts lists every overlay label currently attached to the panel.
func (o Overlays) Texts() []string {
	if o.marker == nil {
		return nil
	}
	return []string{o.marker.Label}
}

package viewer

import "github.com/sirupsen/logrus"

type route struct {
	kind  EventKind
	panel Panel
}

type handler func(s *Session, ev Event) (Redraw, error)

// routes maps each (event kind, panel) pair the session reacts to onto its
// handler. Pairs not listed are ignored.
//
//nolint:gochecknoglobals // Static dispatch table.
var routes = map[route]handler{
	{EventPress, PanelMain}:     press,
	{EventPress, PanelZoom}:     press,
	{EventScroll, PanelMain}:    scroll,
	{EventScroll, PanelZoom}:    scroll,
	{EventMove, PanelMain}:      move,
	{EventMove, PanelZoom}:      move,
	{EventMove, PanelHistogram}: move,

	{EventPress, PanelVMinSlider}: vmin,
	{EventDrag, PanelVMinSlider}:  vmin,
	{EventPress, PanelVMaxSlider}: vmax,
	{EventDrag, PanelVMaxSlider}:  vmax,
	{EventPress, PanelZoomSlider}: zoomWidth,
	{EventDrag, PanelZoomSlider}:  zoomWidth,
}

func press(s *Session, ev Event) (Redraw, error) {
	if ev.Button == ButtonSecondary {
		return s.OnSecondaryClick(ev.Panel, ev.X, ev.Y), nil
	}
	return s.OnPrimaryClick(ev.Panel, ev.X, ev.Y), nil
}

func scroll(s *Session, ev Event) (Redraw, error) {
	return s.OnScroll(ev.Direction, ev.X, ev.Y)
}

func move(s *Session, ev Event) (Redraw, error) {
	return s.OnPointerMove(ev.Panel, ev.X, ev.Y), nil
}

func vmin(s *Session, ev Event) (Redraw, error) { return s.SetVMin(ev.X), nil }

func vmax(s *Session, ev Event) (Redraw, error) { return s.SetVMax(ev.X), nil }

func zoomWidth(s *Session, ev Event) (Redraw, error) { return s.SetZoomWidth(ev.X), nil }

// Handle routes a panel-resolved event to the matching operation and returns
// the panels to redraw. Events no panel reacts to are a no-op.
func (s *Session) Handle(ev Event) (Redraw, error) {
	h, ok := routes[route{ev.Kind, ev.Panel}]
	if !ok {
		return 0, nil
	}
	redraw, err := h(s, ev)
	fields := logrus.Fields{
		"event":  ev.Kind.String(),
		"panel":  ev.Panel.String(),
		"x":      ev.X,
		"y":      ev.Y,
		"redraw": redraw.String(),
	}
	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("event rejected")
		return 0, err
	}
	s.log.WithFields(fields).Trace("event handled")
	return redraw, nil
}

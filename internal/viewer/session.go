// Package viewer implements the interaction state of a FITS viewing session:
// the zoom window, cursor, contrast range, profiles, histogram and the overlay
// artifacts of each panel. Every operation mutates the session synchronously
// and returns the set of panels that must be redrawn.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/validate"
)

// ErrUnknownScrollDirection reports a scroll direction outside In/Out.
var ErrUnknownScrollDirection = errors.New("unknown scroll direction")

const panelCount = int(PanelZoomSlider) + 1

// Session is the single owner of all mutable viewing state. It is not safe for
// concurrent use; the UI event loop calls it from one goroutine.
type Session struct {
	img  *imagestore.Image
	opts Options
	log  *logrus.Entry

	zoom     ZoomState
	zoomed   imagestore.Sub
	stats    imagestore.Stats
	contrast ContrastRange
	hist     imagestore.Histogram
	profiles Profiles
	readout  Readout
	overlays [panelCount]Overlays
}

// NewSession starts a session over img with the whole image in the zoom panel,
// the cursor at the image centre and the full intensity range displayed.
func NewSession(img *imagestore.Image, opts Options, log *logrus.Entry) (*Session, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if opts.ZoomWidth == 0 {
		opts.ZoomWidth = DefaultZoomWidth
	}
	if opts.Bins == 0 {
		opts.Bins = DefaultBins
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid session options: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Session{img: img, opts: opts, log: log}
	s.zoom = ZoomState{
		Region:  img.Bounds(),
		Width:   s.clampWidth(opts.ZoomWidth),
		CenterX: float64(img.Width()) / 2,
		CenterY: float64(img.Height()) / 2,
		PosX:    img.Width() / 2,
		PosY:    img.Height() / 2,
	}
	s.zoomed = img.Sub(s.zoom.Region)
	s.stats = img.Stats(s.zoom.Region)
	s.updateProfiles()

	s.contrast.VMin = img.Min()
	s.contrast.VMax = math.Max(img.Max(), img.Min()+Epsilon)
	s.applyContrast()

	s.log.WithFields(logrus.Fields{
		"width":  img.Width(),
		"height": img.Height(),
		"vmin":   s.contrast.VMin,
		"vmax":   s.contrast.VMax,
	}).Debug("viewer session started")
	return s, nil
}

// Image returns the image being viewed.
func (s *Session) Image() *imagestore.Image { return s.img }

// Options returns the effective session options.
func (s *Session) Options() Options { return s.opts }

// Zoom returns the current zoom state.
func (s *Session) Zoom() ZoomState { return s.zoom }

// Zoomed returns the sub-array shown in the zoom panel.
func (s *Session) Zoomed() imagestore.Sub { return s.zoomed }

// ZoomStats returns summary statistics of the zoom window.
func (s *Session) ZoomStats() imagestore.Stats { return s.stats }

// Contrast returns the display clip range shared by the main and zoom panels.
func (s *Session) Contrast() ContrastRange { return s.contrast }

// Histogram returns the histogram of the clipped image.
func (s *Session) Histogram() imagestore.Histogram { return s.hist }

// Profiles returns the row and column profiles through the cursor.
func (s *Session) Profiles() Profiles { return s.profiles }

// Readout returns the pixel last hovered on an image panel.
func (s *Session) Readout() Readout { return s.readout }

// Overlays returns the overlay artifacts attached to p.
func (s *Session) Overlays(p Panel) Overlays {
	if int(p) < 0 || int(p) >= panelCount {
		return Overlays{}
	}
	return s.overlays[p]
}

// ZoomWidthRange returns the bounds the zoom width is kept within.
func (s *Session) ZoomWidthRange() (float64, float64) {
	return MinZoomWidth, 2 * float64(max(s.img.Width(), s.img.Height()))
}

func (s *Session) clampWidth(w float64) float64 {
	lo, hi := s.ZoomWidthRange()
	return clampFloat(w, lo, hi)
}

// Axes returns the data range panel p displays.
func (s *Session) Axes(p Panel) Axes {
	r := s.zoom.Region
	switch p {
	case PanelMain:
		return Axes{X1: float64(s.img.Width()), Y1: float64(s.img.Height())}
	case PanelZoom:
		return Axes{X0: float64(r.XMin), X1: float64(r.XMax), Y0: float64(r.YMin), Y1: float64(r.YMax)}
	case PanelRowProfile:
		return Axes{X0: float64(r.XMin), X1: float64(r.XMax), Y0: s.profiles.Row.Lo, Y1: s.profiles.Row.Hi}
	case PanelColumnProfile:
		return Axes{X0: s.profiles.Column.Lo, X1: s.profiles.Column.Hi, Y0: float64(r.YMin), Y1: float64(r.YMax)}
	case PanelHistogram:
		// Counts are drawn as log10(1+n).
		top := 1.0
		if m := s.hist.MaxCount(); m > 0 {
			top = math.Log10(1 + m)
		}
		return Axes{X0: s.contrast.VMin, X1: s.contrast.VMax, Y1: top}
	case PanelVMinSlider:
		return Axes{X0: s.img.Min(), X1: math.Max(s.img.Min(), s.img.Max()-Epsilon)}
	case PanelVMaxSlider:
		lo := s.contrast.VMin + Epsilon
		return Axes{X0: lo, X1: math.Max(lo, s.img.Max())}
	case PanelZoomSlider:
		lo, hi := s.ZoomWidthRange()
		return Axes{X0: lo, X1: hi}
	default:
		return Axes{}
	}
}

// OnPrimaryClick handles a primary-button press. On the main panel it moves
// the cursor and re-centres the zoom window there; on the zoom panel it moves
// the cursor and refreshes the profiles without re-centring.
func (s *Session) OnPrimaryClick(panel Panel, x, y float64) Redraw {
	switch panel {
	case PanelMain:
		s.setCursor(x, y)
		s.overlays[PanelMain].ReplaceCrosshair(s.cursorCrosshair())
		s.recenter(float64(s.zoom.PosX), float64(s.zoom.PosY))
		return RedrawMain | RedrawZoom | RedrawProfiles | RedrawReadout
	case PanelZoom:
		s.setCursor(x, y)
		s.updateProfiles()
		s.overlays[PanelMain].ReplaceCrosshair(s.cursorCrosshair())
		return RedrawMain | RedrawZoom | RedrawProfiles | RedrawReadout
	default:
		return 0
	}
}

// OnSecondaryClick re-centres the zoom window on (x, y). Only the zoom panel
// reacts to it.
func (s *Session) OnSecondaryClick(panel Panel, x, y float64) Redraw {
	if panel != PanelZoom {
		return 0
	}
	s.setCursor(x, y)
	s.overlays[PanelMain].ReplaceCrosshair(s.cursorCrosshair())
	s.recenter(float64(s.zoom.PosX), float64(s.zoom.PosY))
	return RedrawMain | RedrawZoom | RedrawProfiles | RedrawReadout
}

// OnScroll halves (In) or doubles (Out) the zoom width around the pointer.
func (s *Session) OnScroll(dir ScrollDirection, x, y float64) (Redraw, error) {
	var factor float64
	switch dir {
	case ScrollIn:
		factor = 1 / ScrollFactor
	case ScrollOut:
		factor = ScrollFactor
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownScrollDirection, dir)
	}
	s.zoom.Width = s.clampWidth(s.zoom.Width * factor)
	s.setCursor(x, y)
	s.recenter(clampFloat(x, 0, float64(s.img.Width())), clampFloat(y, 0, float64(s.img.Height())))
	return RedrawMain | RedrawZoom | RedrawProfiles | RedrawSliders | RedrawReadout, nil
}

// OnPointerMove tracks the pointer. Over the zoom panel it moves the zoom
// crosshair only; over the histogram it replaces the value marker and label.
// Over either image panel it refreshes the readout.
func (s *Session) OnPointerMove(panel Panel, x, y float64) Redraw {
	switch panel {
	case PanelZoom:
		px, py := pixel(x), pixel(y)
		s.overlays[PanelZoom].ReplaceCrosshair(Crosshair{X: float64(px), Y: float64(py)})
		s.updateReadout(px, py)
		return RedrawZoom | RedrawReadout
	case PanelMain:
		s.updateReadout(pixel(x), pixel(y))
		return RedrawReadout
	case PanelHistogram:
		s.overlays[PanelHistogram].ReplaceMarker(Marker{Value: x, Label: fmt.Sprintf("%.2f", x)})
		return RedrawHistogram
	default:
		return 0
	}
}

// SetVMin moves the lower clip bound, keeping VMax >= VMin + Epsilon by
// pushing VMax up when needed.
func (s *Session) SetVMin(v float64) Redraw {
	if math.IsNaN(v) {
		return 0
	}
	ax := s.Axes(PanelVMinSlider)
	s.contrast.VMin = clampFloat(v, ax.X0, ax.X1)
	if s.contrast.VMax < s.contrast.VMin+Epsilon {
		s.contrast.VMax = s.contrast.VMin + Epsilon
	}
	return s.applyContrast()
}

// SetVMax moves the upper clip bound within [VMin + Epsilon, image max].
func (s *Session) SetVMax(v float64) Redraw {
	if math.IsNaN(v) {
		return 0
	}
	ax := s.Axes(PanelVMaxSlider)
	s.contrast.VMax = clampFloat(v, ax.X0, ax.X1)
	return s.applyContrast()
}

// SetContrast sets both clip bounds.
func (s *Session) SetContrast(vmin, vmax float64) Redraw {
	return s.SetVMin(vmin) | s.SetVMax(vmax)
}

// ResetContrast restores the full intensity range.
func (s *Session) ResetContrast() Redraw {
	return s.SetContrast(s.img.Min(), s.img.Max())
}

// SetZoomWidth changes the zoom width and rebuilds the window around its
// current centre.
func (s *Session) SetZoomWidth(w float64) Redraw {
	if math.IsNaN(w) {
		return 0
	}
	s.zoom.Width = s.clampWidth(w)
	s.recenter(s.zoom.CenterX, s.zoom.CenterY)
	return RedrawMain | RedrawZoom | RedrawProfiles | RedrawSliders
}

// MoveCursor shifts the cursor by (dx, dy) pixels. Inside the zoom window it
// behaves like a primary click on the zoom panel; leaving the window re-centres
// it like a secondary click.
func (s *Session) MoveCursor(dx, dy int) Redraw {
	x := s.zoom.PosX + dx
	y := s.zoom.PosY + dy
	if !s.img.In(x, y) {
		return 0
	}
	fx, fy := float64(x)+0.5, float64(y)+0.5
	if s.zoom.Region.Contains(x, y) {
		return s.OnPrimaryClick(PanelZoom, fx, fy)
	}
	return s.OnSecondaryClick(PanelZoom, fx, fy)
}

func (s *Session) applyContrast() Redraw {
	s.hist = s.img.Histogram(s.contrast.VMin, s.contrast.VMax, s.opts.Bins)
	s.overlays[PanelHistogram].ClearMarker()
	return RedrawMain | RedrawZoom | RedrawHistogram | RedrawSliders
}

// setCursor stores the truncated pointer position, clamped to the image.
func (s *Session) setCursor(x, y float64) {
	s.zoom.PosX = clampInt(pixel(x), 0, s.img.Width()-1)
	s.zoom.PosY = clampInt(pixel(y), 0, s.img.Height()-1)
	s.updateReadout(s.zoom.PosX, s.zoom.PosY)
}

func (s *Session) cursorCrosshair() Crosshair {
	return Crosshair{X: float64(s.zoom.PosX), Y: float64(s.zoom.PosY)}
}

// recenter rebuilds the zoom window of the current width around (cx, cy),
// outlines it on the main panel and refreshes the profiles.
func (s *Session) recenter(cx, cy float64) {
	s.zoom.CenterX, s.zoom.CenterY = cx, cy
	r := imagestore.Centered(cx, cy, s.zoom.Width).Clamp(s.img.Width(), s.img.Height())
	if r.Empty() {
		px := clampInt(pixel(cx), 0, s.img.Width()-1)
		py := clampInt(pixel(cy), 0, s.img.Height()-1)
		r = imagestore.Region{XMin: px, XMax: px + 1, YMin: py, YMax: py + 1}
	}
	s.zoom.Region = r
	s.zoomed = s.img.Sub(r)
	s.stats = s.img.Stats(r)
	s.overlays[PanelMain].ReplaceRect(Rect{Region: r})
	s.updateProfiles()
	s.log.WithFields(logrus.Fields{"region": r.String(), "width": s.zoom.Width}).Debug("zoom window updated")
}

// updateProfiles re-extracts the row and column through the cursor from the
// zoomed sub-array and moves the zoom crosshair onto the cursor.
func (s *Session) updateProfiles() {
	s.zoom.PosX, s.zoom.PosY = s.zoom.Region.ClampPoint(s.zoom.PosX, s.zoom.PosY)
	r := s.zoom.Region
	s.profiles = Profiles{
		Row:    newProfile(r.XMin, s.zoomed.Row(s.zoom.PosY)),
		Column: newProfile(r.YMin, s.zoomed.Column(s.zoom.PosX)),
	}
	s.overlays[PanelZoom].ReplaceCrosshair(s.cursorCrosshair())
}

func (s *Session) updateReadout(x, y int) {
	if !s.img.In(x, y) {
		s.readout = Readout{}
		return
	}
	s.readout = Readout{Valid: true, X: x, Y: y, Value: s.img.At(x, y)}
	if p := s.img.Projection(); p != nil {
		s.readout.World = p.Format(float64(x), float64(y))
	}
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

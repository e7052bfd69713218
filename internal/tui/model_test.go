package tui //nolint:testpackage // white-box tests need access to unexported fields

import (
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/fitsview/internal/fitsfile"
	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

const (
	termWidth  = 120
	termHeight = 40
)

// newTestModel returns a sized model over a 100x100 ramp where pixel (x, y)
// holds x + 100*y, with a zoom width of 20.
func newTestModel(t *testing.T) Model {
	t.Helper()
	data := make([]float64, 100*100)
	for i := range data {
		data[i] = float64(i)
	}
	img, err := imagestore.New(100, 100, data)
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)
	log := logrus.NewEntry(l)

	s, err := viewer.NewSession(img, viewer.Options{ZoomWidth: 20}, log)
	require.NoError(t, err)

	doc := &fitsfile.Document{
		Path:  "/data/test.fits",
		Title: "test.fits",
		Axes:  []int{100, 100},
		Image: img,
		Cards: []fitsfile.Card{
			{Name: "SIMPLE", Value: "T"},
			{Name: "TELESCOP", Value: "'VLT'", Comment: "telescope"},
		},
		Meta: fitsfile.Metadata{Telescope: "VLT"},
	}
	m := NewModel(Config{Session: s, Document: doc, SnapshotDir: t.TempDir(), Log: log})
	return update(t, m, tea.WindowSizeMsg{Width: termWidth, Height: termHeight})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewLayout_Geometry(t *testing.T) {
	t.Parallel()
	l := newLayout(termWidth, termHeight)
	require.True(t, l.ok)

	assert.Equal(t, rect{X: 0, Y: 1, W: 51, H: 29}, l.main)
	assert.Equal(t, rect{X: 52, Y: 1, W: 51, H: 22}, l.zoom)
	assert.Equal(t, rect{X: 104, Y: 1, W: 16, H: 22}, l.colProfile)
	assert.Equal(t, rect{X: 52, Y: 24, W: 51, H: 6}, l.rowProfile)
	assert.Equal(t, rect{X: 0, Y: 31, W: 51, H: 7}, l.histogram)
	assert.Equal(t, rect{X: 59, Y: 31, W: 48, H: 1}, l.sliders[0])
	assert.Equal(t, rect{X: 52, Y: 35, W: 68, H: 3}, l.info)

	assert.False(t, newLayout(minWidth-1, termHeight).ok)
	assert.False(t, newLayout(termWidth, minHeight-1).ok)
}

func TestFitImage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		area rect
		w, h float64
		want rect
	}{
		{"square limited by width", rect{W: 51, H: 29}, 100, 100, rect{W: 51, H: 26}},
		{"square limited by height", rect{W: 80, H: 10}, 100, 100, rect{W: 20, H: 10}},
		{"wide image", rect{W: 40, H: 20}, 200, 50, rect{W: 40, H: 5}},
		{"empty area", rect{X: 3, Y: 4}, 10, 10, rect{X: 3, Y: 4}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fitImage(tt.area, tt.w, tt.h))
		})
	}
}

func TestGrid_RoundTrip(t *testing.T) {
	t.Parallel()
	g := grid{area: rect{X: 10, Y: 5, W: 20, H: 10}, x0: 0, x1: 40, y0: 0, y1: 20}
	for cx := 10; cx < 30; cx++ {
		for cy := 5; cy < 15; cy++ {
			x, y := g.toData(cx, cy)
			gx, gy, ok := g.toCell(x, y)
			require.True(t, ok)
			assert.Equal(t, cx, gx)
			assert.Equal(t, cy, gy)
		}
	}
	_, y := g.toData(10, 5)
	assert.InDelta(t, 19.0, y, 1e-9, "top row holds the largest y")
}

func TestSliderValue_HitsBounds(t *testing.T) {
	t.Parallel()
	bar := rect{X: 10, Y: 0, W: 11, H: 1}
	assert.InDelta(t, 2.0, sliderValue(bar, 10, 2, 12), 1e-12)
	assert.InDelta(t, 12.0, sliderValue(bar, 20, 2, 12), 1e-12)
	assert.InDelta(t, 7.0, sliderValue(bar, 15, 2, 12), 1e-12)
	assert.InDelta(t, 12.0, sliderValue(bar, 99, 2, 12), 1e-12)
}

func TestMouse_MainClickRecentresZoom(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m = update(t, m, tea.MouseMsg{X: 25, Y: 13, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	z := m.session.Zoom()
	assert.Equal(t, 50, z.PosX)
	assert.Equal(t, 51, z.PosY)
	assert.Equal(t, imagestore.Region{XMin: 40, XMax: 60, YMin: 41, YMax: 61}, z.Region)
}

func TestMouse_WheelNarrowsZoom(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m = update(t, m, tea.MouseMsg{X: 25, Y: 13, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})

	z := m.session.Zoom()
	assert.InDelta(t, 10.0, z.Width, 1e-12)
	assert.Equal(t, imagestore.Region{XMin: 45, XMax: 55, YMin: 46, YMax: 56}, z.Region)
}

func TestMouse_HistogramMoveRedrawsOnlyHistogram(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	before := m.renders

	m = update(t, m, tea.MouseMsg{X: 10, Y: 34, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})

	for b := block(0); b < blockCount; b++ {
		if b == blockHistogram {
			assert.Equal(t, before[b]+1, m.renders[b])
			continue
		}
		assert.Equal(t, before[b], m.renders[b], "block %d", b)
	}
	_, ok := m.session.Overlays(viewer.PanelHistogram).Marker()
	assert.True(t, ok)
}

func TestMouse_SliderPressDragRelease(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	bar := m.layout.sliders[0]

	m = update(t, m, tea.MouseMsg{X: bar.X, Y: bar.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, viewer.PanelVMinSlider, m.drag)
	assert.InDelta(t, 0.0, m.session.Contrast().VMin, 1e-12)

	// Motion keeps driving the held slider even off the bar.
	m = update(t, m, tea.MouseMsg{X: bar.X + bar.W + 5, Y: bar.Y + 3, Action: tea.MouseActionMotion})
	c := m.session.Contrast()
	assert.InDelta(t, 9999-viewer.Epsilon, c.VMin, 1e-9)
	assert.GreaterOrEqual(t, c.VMax, c.VMin+viewer.Epsilon)

	m = update(t, m, tea.MouseMsg{X: bar.X, Y: bar.Y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, viewer.PanelNone, m.drag)
}

func TestKeys_SliderFocusAndStep(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, m.focus)

	m = update(t, m, runes("]"))
	assert.InDelta(t, 20+0.01*198, m.session.Zoom().Width, 1e-9)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)
	m = update(t, m, runes("}"))
	assert.InDelta(t, 0.1*(9999-viewer.Epsilon), m.session.Contrast().VMin, 1e-6)

	m = update(t, m, runes("r"))
	assert.Equal(t, viewer.ContrastRange{VMin: 0, VMax: 9999}, m.session.Contrast())
}

func TestKeys_ArrowsMoveCursor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	z := m.session.Zoom()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, z.PosX-1, m.session.Zoom().PosX)
	assert.Equal(t, z.PosY+1, m.session.Zoom().PosY)
}

func TestKeys_Quit(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Shutting down...\n", next.View())
}

func TestKeys_HeaderToggle(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m = update(t, m, runes("i"))
	require.True(t, m.headerVisible)
	assert.Contains(t, m.View(), "TELESCOP= 'VLT' / telescope")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.headerVisible)
}

func TestSnapshotCommand(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	next, cmd := m.Update(runes("p"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(snapshotMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	_, err := os.Stat(msg.Path)
	require.NoError(t, err)

	m = update(t, next.(Model), msg)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, msg.Path)
}

func TestView_ComposesPanels(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"test.fits 100x100 [viridis]", "zoom [0:100, 0:100]", "stats", "histogram", "vmin", "telescope VLT", "object unknown"} {
		assert.Contains(t, out, want)
	}
}

func TestView_TerminalTooSmall(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.View(), "Terminal too small")
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/fitsview/internal/colormap"
	"github.com/ensigniasec/fitsview/internal/fitsfile"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

// block is a separately cached piece of the screen.
type block int

const (
	blockMain block = iota
	blockZoom
	blockRowProfile
	blockColumnProfile
	blockStats
	blockHistogram
	blockSliders
	blockInfo
	blockCount
)

// blockRedraw is the redraw bit that invalidates each block.
//
//nolint:gochecknoglobals // Static lookup table.
var blockRedraw = [blockCount]viewer.Redraw{
	blockMain:          viewer.RedrawMain,
	blockZoom:          viewer.RedrawZoom,
	blockRowProfile:    viewer.RedrawRowProfile,
	blockColumnProfile: viewer.RedrawColumnProfile,
	blockStats:         viewer.RedrawZoom,
	blockHistogram:     viewer.RedrawHistogram,
	blockSliders:       viewer.RedrawSliders,
	blockInfo:          viewer.RedrawReadout,
}

// Config wires a viewing session into the TUI.
type Config struct {
	Session     *viewer.Session
	Document    *fitsfile.Document
	Colormap    *colormap.Map
	SnapshotDir string
	Log         *logrus.Entry
}

// Model is the root Bubble Tea model.
type Model struct {
	session     *viewer.Session
	doc         *fitsfile.Document
	cmap        *colormap.Map
	snapshotDir string
	log         *logrus.Entry

	layout layout
	// blocks caches the rendered text of each block; renders counts how often
	// each one was rebuilt.
	blocks  [blockCount]string
	renders [blockCount]int

	// focus indexes sliderPanels; drag is the slider held by the mouse.
	focus int
	drag  viewer.Panel

	bar           progress.Model
	help          help.Model
	helpVisible   bool
	header        viewport.Model
	headerVisible bool
	keys          keyMap

	status    string
	statusErr bool
	quitting  bool
}

// NewModel constructs a Model with initial state.
func NewModel(cfg Config) Model { // nolint:ireturn
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	cmap := cfg.Colormap
	if cmap == nil {
		cmap, _ = colormap.Lookup(colormap.Default)
	}
	vp := viewport.New(0, 0)
	vp.SetContent(strings.Join(fitsfile.HeaderLines(cfg.Document.Cards), "\n"))
	return Model{
		session:     cfg.Session,
		doc:         cfg.Document,
		cmap:        cmap,
		snapshotDir: cfg.SnapshotDir,
		log:         log,
		drag:        viewer.PanelNone,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:        help.New(),
		header:      vp,
		keys:        newKeyMap(),
		status:      "click the main image to zoom, scroll to change the zoom width",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// render rebuilds every block invalidated by redraw. Other blocks keep their
// cached text.
func (m *Model) render(redraw viewer.Redraw) {
	if !m.layout.ok {
		return
	}
	for b := block(0); b < blockCount; b++ {
		if redraw&blockRedraw[b] == 0 {
			continue
		}
		m.blocks[b] = m.renderBlock(b)
		m.renders[b]++
	}
}

func (m Model) renderBlock(b block) string {
	switch b {
	case blockMain:
		return m.renderMain()
	case blockZoom:
		return m.renderZoom()
	case blockRowProfile:
		return m.renderRowProfile()
	case blockColumnProfile:
		return m.renderColumnProfile()
	case blockStats:
		return m.renderStats()
	case blockHistogram:
		return m.renderHistogram()
	case blockSliders:
		return m.renderSliders()
	case blockInfo:
		return m.renderInfo()
	default:
		return ""
	}
}

// currentValue returns the value behind slider p.
func (m Model) currentValue(p viewer.Panel) float64 {
	switch p {
	case viewer.PanelVMinSlider:
		return m.session.Contrast().VMin
	case viewer.PanelVMaxSlider:
		return m.session.Contrast().VMax
	case viewer.PanelZoomSlider:
		return m.session.Zoom().Width
	default:
		return 0
	}
}

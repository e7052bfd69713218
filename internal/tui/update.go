package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/fitsview/internal/imagestore"
	"github.com/ensigniasec/fitsview/internal/snapshot"
	"github.com/ensigniasec/fitsview/internal/viewer"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = newLayout(x.Width, x.Height)
		m.help.Width = x.Width
		m.header.Width = x.Width
		m.header.Height = max(1, x.Height-footerLines)
		m.render(viewer.RedrawAll)
		return m, nil

	case tea.KeyMsg:
		if m.headerVisible {
			return m.handleHeaderKey(x)
		}
		return m.handleKey(x)

	case tea.MouseMsg:
		if m.headerVisible {
			var cmd tea.Cmd
			m.header, cmd = m.header.Update(x)
			return m, cmd
		}
		return m.handleMouse(x), nil

	case snapshotMsg:
		if x.Err != nil {
			m.log.WithError(x.Err).Error("snapshot failed")
			m.setStatus(fmt.Sprintf("snapshot failed: %v", x.Err), true)
			return m, nil
		}
		m.log.WithField("path", x.Path).Info("snapshot saved")
		m.setStatus("saved "+x.Path, false)
		return m, nil
	}

	return m, nil
}

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	s := m.session
	z := s.Zoom()
	cx, cy := float64(z.PosX)+0.5, float64(z.PosY)+0.5

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.apply(s.MoveCursor(0, 1), nil)
	case key.Matches(msg, m.keys.Down):
		m.apply(s.MoveCursor(0, -1), nil)
	case key.Matches(msg, m.keys.Left):
		m.apply(s.MoveCursor(-1, 0), nil)
	case key.Matches(msg, m.keys.Right):
		m.apply(s.MoveCursor(1, 0), nil)

	case key.Matches(msg, m.keys.ZoomIn):
		m.apply(s.OnScroll(viewer.ScrollIn, cx, cy))
	case key.Matches(msg, m.keys.ZoomOut):
		m.apply(s.OnScroll(viewer.ScrollOut, cx, cy))

	case key.Matches(msg, m.keys.NextSlider):
		m.focus = (m.focus + 1) % sliderCount
		m.render(viewer.RedrawSliders)
	case key.Matches(msg, m.keys.StepDown):
		m.stepSlider(-sliderFineStep)
	case key.Matches(msg, m.keys.StepUp):
		m.stepSlider(sliderFineStep)
	case key.Matches(msg, m.keys.JumpDown):
		m.stepSlider(-sliderCoarseStep)
	case key.Matches(msg, m.keys.JumpUp):
		m.stepSlider(sliderCoarseStep)

	case key.Matches(msg, m.keys.Reset):
		m.apply(s.ResetContrast(), nil)
		m.setStatus("contrast reset", false)

	case key.Matches(msg, m.keys.Snapshot):
		m.setStatus("saving snapshot...", false)
		return m, m.saveSnapshot(s.Zoom().Region)

	case key.Matches(msg, m.keys.SnapshotAll):
		m.setStatus("saving snapshot...", false)
		return m, m.saveSnapshot(s.Image().Bounds())

	case key.Matches(msg, m.keys.Header):
		m.headerVisible = true
		m.header.GotoTop()
	}

	return m, nil
}

// handleHeaderKey scrolls the header viewer or closes it.
func (m Model) handleHeaderKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.CloseHeader):
		m.headerVisible = false
		return m, nil
	}
	var cmd tea.Cmd
	m.header, cmd = m.header.Update(msg)
	return m, cmd
}

// handleMouse resolves a mouse message to a panel event and applies it.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action == tea.MouseActionRelease {
		m.drag = viewer.PanelNone
		return m
	}
	ev, ok := m.layout.resolve(m.session, msg, m.drag)
	if !ok {
		return m
	}
	if ev.Kind == viewer.EventPress && ev.Button == viewer.ButtonPrimary {
		for i, p := range sliderPanels {
			if p == ev.Panel {
				m.drag = p
				if m.focus != i {
					m.focus = i
					m.render(viewer.RedrawSliders)
				}
			}
		}
	}
	m.apply(m.session.Handle(ev))
	return m
}

// stepSlider moves the focused slider by frac of its range.
func (m *Model) stepSlider(frac float64) {
	p := sliderPanels[m.focus]
	ax := m.session.Axes(p)
	v := m.currentValue(p) + frac*(ax.X1-ax.X0)
	m.apply(m.session.Handle(viewer.Event{Kind: viewer.EventDrag, Panel: p, X: v}))
}

// apply re-renders the blocks a session update invalidated. Rejected events
// are logged and otherwise ignored.
func (m *Model) apply(redraw viewer.Redraw, err error) {
	if err != nil {
		m.log.WithError(err).Warn("ignoring event")
		return
	}
	m.render(redraw)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// saveSnapshot exports region at the current contrast.
func (m Model) saveSnapshot(region imagestore.Region) tea.Cmd {
	img := m.session.Image()
	c := m.session.Contrast()
	dir, title, cmap := m.snapshotDir, m.doc.Title, m.cmap
	return func() tea.Msg {
		path, err := snapshot.Save(dir, title, img, region, c.VMin, c.VMax, cmap)
		return snapshotMsg{Path: path, Err: err}
	}
}

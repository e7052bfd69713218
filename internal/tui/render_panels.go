package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/fitsview/internal/viewer"
)

// Styles are defined at package scope to avoid reallocation on every render.
//
//nolint:gochecknoglobals // Styles are immutable and shared across renders.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(grayColor))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(markerColor))
)

// fit truncates or pads plain text s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > w {
		if w == 1 {
			return "…"
		}
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(r))
}

func title(s string, w int) string {
	return titleStyle.Render(fit(s, w))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func (m Model) renderMain() string {
	img := m.session.Image()
	area := m.layout.main
	t := fmt.Sprintf("%s %dx%d [%s]", m.doc.Title, img.Width(), img.Height(), m.cmap.Name())
	body := renderHeatmap(img, area, m.layout.grid(m.session, viewer.PanelMain),
		m.session.Contrast(), m.cmap, m.session.Overlays(viewer.PanelMain))
	return title(t, area.W) + "\n" + body
}

func (m Model) renderZoom() string {
	z := m.session.Zoom()
	area := m.layout.zoom
	t := fmt.Sprintf("zoom %s w=%.0f", z.Region, z.Width)
	body := renderHeatmap(m.session.Image(), area, m.layout.grid(m.session, viewer.PanelZoom),
		m.session.Contrast(), m.cmap, m.session.Overlays(viewer.PanelZoom))
	return title(t, area.W) + "\n" + body
}

func (m Model) renderRowProfile() string {
	z := m.session.Zoom()
	p := m.session.Profiles().Row
	area := m.layout.rowProfile
	t := fmt.Sprintf("row y=%d [%.4g, %.4g]", z.PosY, p.Lo, p.Hi)
	body := renderRowProfile(area, m.layout.grid(m.session, viewer.PanelRowProfile), p, z.PosX)
	return title(t, area.W) + "\n" + body
}

func (m Model) renderColumnProfile() string {
	z := m.session.Zoom()
	p := m.session.Profiles().Column
	area := m.layout.colProfile
	body := renderColumnProfile(area, m.layout.grid(m.session, viewer.PanelColumnProfile), p, z.PosY)
	return title(fmt.Sprintf("col x=%d", z.PosX), area.W) + "\n" + body
}

func (m Model) renderStats() string {
	st := m.session.ZoomStats()
	r := m.session.Zoom().Region
	area := m.layout.stats
	rows := []struct {
		label string
		value string
	}{
		{"n", fmt.Sprintf("%d", st.N)},
		{"mean", fmt.Sprintf("%.5g", st.Mean)},
		{"std", fmt.Sprintf("%.5g", st.StdDev)},
		{"min", fmt.Sprintf("%.5g", st.Min)},
		{"max", fmt.Sprintf("%.5g", st.Max)},
		{"size", fmt.Sprintf("%dx%d", r.Dx(), r.Dy())},
	}
	lines := []string{title("stats", area.W)}
	for i := 0; i < area.H; i++ {
		if i >= len(rows) {
			lines = append(lines, fit("", area.W))
			continue
		}
		valueWidth := max(0, area.W-5)
		value := rows[i].value
		if len(value) > valueWidth {
			value = fit(value, valueWidth)
		}
		lines = append(lines, labelStyle.Render(fit(rows[i].label, 5))+fmt.Sprintf("%*s", valueWidth, value))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistogram() string {
	c := m.session.Contrast()
	area := m.layout.histogram
	ov := m.session.Overlays(viewer.PanelHistogram)
	base := fmt.Sprintf("histogram [%.4g, %.4g]", c.VMin, c.VMax)
	head := title(base, area.W)
	if mk, ok := ov.Marker(); ok {
		label := " │" + mk.Label
		n := min(len([]rune(base)), max(0, area.W-len([]rune(label))))
		head = title(base, n) + markerStyle.Render(fit(label, area.W-n))
	}
	body := renderHistogram(area, m.layout.grid(m.session, viewer.PanelHistogram), m.session.Histogram(), ov)
	return head + "\n" + body
}

func (m Model) renderSliders() string {
	width := m.layout.width - m.layout.leftWidth
	lines := []string{title("contrast and zoom width", width)}
	bar := m.bar
	bar.Width = m.layout.sliders[0].W
	names := [sliderCount]string{"vmin", "vmax", "zoom"}
	for i, p := range sliderPanels {
		prefix := "  "
		style := labelStyle
		if i == m.focus {
			prefix = "> "
			style = titleStyle
		}
		ax := m.session.Axes(p)
		v := m.currentValue(p)
		lines = append(lines, style.Render(fit(prefix+names[i], sliderLabelWidth))+
			bar.ViewAs(sliderPercent(v, ax.X0, ax.X1))+
			fmt.Sprintf(" %12.5g", v))
	}
	lines = append(lines, fit("", width))
	return strings.Join(lines, "\n")
}

func (m Model) renderInfo() string {
	area := m.layout.info
	meta := m.doc.Meta
	axes := make([]string, len(m.doc.Axes))
	for i, a := range m.doc.Axes {
		axes[i] = fmt.Sprintf("%d", a)
	}
	lines := []string{
		fmt.Sprintf("%s  HDU %d  axes %s  unit %s",
			m.doc.Title, m.doc.HDU, strings.Join(axes, "x"), orUnknown(meta.Unit)),
		fmt.Sprintf("telescope %s  object %s  date %s %s",
			orUnknown(meta.Telescope), orUnknown(meta.Object), orUnknown(meta.Date), meta.TimeSys),
		m.readoutLine(),
	}
	for len(lines) < area.H {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = fit(lines[i], area.W)
	}
	return strings.Join(lines[:max(0, area.H)], "\n")
}

func (m Model) readoutLine() string {
	r := m.session.Readout()
	if !r.Valid {
		return "pointer outside image"
	}
	value := "NaN"
	if !math.IsNaN(r.Value) {
		value = fmt.Sprintf("%.6g", r.Value)
	}
	s := fmt.Sprintf("x=%d y=%d value=%s", r.X, r.Y, value)
	if u := m.session.Image().Unit(); u != "" {
		s += " " + u
	}
	if r.World != "" {
		s += "  " + r.World
	}
	return s
}

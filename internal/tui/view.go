package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model. It only composes cached blocks; rendering happens
// in Update when a block is invalidated.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.headerVisible {
		return m.header.View() + "\n" + m.renderFooter()
	}
	if !m.layout.ok {
		if m.layout.width == 0 {
			return "Loading...\n"
		}
		return fmt.Sprintf("Terminal too small (%dx%d); need at least %dx%d.\n",
			m.layout.width, m.layout.height, minWidth, minHeight)
	}

	l := m.layout
	mid := column(l.midWidth,
		m.blocks[blockZoom],
		m.blocks[blockRowProfile],
	)
	right := column(columnProfileWidth,
		m.blocks[blockColumnProfile],
		m.blocks[blockStats],
	)
	top := lipgloss.JoinHorizontal(lipgloss.Top, column(l.leftWidth, m.blocks[blockMain]), mid, right)

	var bottom string
	if m.helpVisible {
		bottom = lipgloss.NewStyle().Width(l.width).Height(bottomLines).MaxHeight(bottomLines).Render(m.help.View(m.keys))
	} else {
		bottom = lipgloss.JoinHorizontal(lipgloss.Top,
			column(l.leftWidth, m.blocks[blockHistogram]),
			column(l.width-l.leftWidth, m.blocks[blockSliders], m.blocks[blockInfo]),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, m.renderFooter())
}

// column stacks parts vertically inside a fixed-width column.
func column(width int, parts ...string) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderFooter returns the status line followed by the short help line.
func (m Model) renderFooter() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(grayColor))
	if m.statusErr {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(errorColor))
	}
	width := max(1, m.layout.width)
	status := style.Render(fit(m.status, width))
	if m.helpVisible && !m.headerVisible {
		return status + "\n" + style.Render(fit("h/? close help", width))
	}
	h := m.help
	h.ShowAll = false
	return status + "\n" + strings.TrimRight(h.View(m.keys), "\n")
}

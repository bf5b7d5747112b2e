package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/output"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	styleWatching = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styleIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleStatus   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderMain renders header, entries and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := styleTitle.Render("logview")
	var state string
	switch {
	case m.view.Watching:
		state = styleWatching.Render("● Watching " + m.view.Name)
	case m.view.Name != "":
		state = styleIdle.Render("○ " + m.view.Name + " (not watching)")
	default:
		state = styleIdle.Render("○ No file loaded")
	}
	return title + "  " + state
}

func (m Model) renderStats() string {
	s := m.view.Stats
	parts := []string{
		fmt.Sprintf("Total %d", s.Total),
		fmt.Sprintf("Showing %d/%d", m.view.Displayed, s.Filtered),
		output.LevelStyle(model.LevelError).Render(fmt.Sprintf("Errors %d", s.Errors)),
		output.LevelStyle(model.LevelWarning).Render(fmt.Sprintf("Warnings %d", s.Warnings)),
		output.LevelStyle(model.LevelInfo).Render(fmt.Sprintf("Info %d", s.Info)),
		"filter: " + m.view.Filter,
	}
	if m.view.Query != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.view.Query))
	}
	return strings.Join(parts, styleMuted.Render(" · "))
}

func (m Model) renderFooter() string {
	if m.searching {
		return m.search.View()
	}
	if m.status != "" {
		return styleStatus.Render(m.status)
	}
	if m.view.Remaining > 0 {
		return styleMuted.Render(fmt.Sprintf("Load more (%d remaining) · m to load · ? for help", m.view.Remaining))
	}
	return styleMuted.Render("? for help")
}

func (m Model) renderHelp() string {
	h := help.New()
	h.Width = m.width
	return styleBox.Render("Keys\n\n" + h.FullHelpView(m.keys.FullHelp()))
}

func (m Model) renderRecent() string {
	var b strings.Builder
	b.WriteString("Recent files\n\n")
	if len(m.recentFiles) == 0 {
		b.WriteString(styleMuted.Render("no recent files"))
	}
	for i, f := range m.recentFiles {
		line := fmt.Sprintf("%-24s %s  %s", f.Name, styleMuted.Render(f.OpenedAt.Format("2006-01-02 15:04")), f.Path)
		if i == m.recentIdx {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return styleBox.Render(strings.TrimRight(b.String(), "\n"))
}

// renderEntries formats the window, one entry per block.
func renderEntries(entries []model.LogEntry, query string) string {
	if len(entries) == 0 {
		return styleMuted.Render("no entries")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = output.FormatEntry(e, query)
	}
	return strings.Join(lines, "\n")
}

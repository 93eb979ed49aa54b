package tui

import (
	"fmt"
	"strings"

	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/charmbracelet/lipgloss"
)

const listWidth = 32

// teamList is a scrolling selector over one region's teams.
type teamList struct {
	teams        []team.Team
	selected     int
	scrollOffset int
	viewHeight   int
}

func newTeamList(teams []team.Team, viewHeight int) *teamList {
	return &teamList{teams: teams, viewHeight: max(1, viewHeight)}
}

func (l *teamList) current() (*team.Team, bool) {
	if l.selected < 0 || l.selected >= len(l.teams) {
		return nil, false
	}
	return &l.teams[l.selected], true
}

func (l *teamList) moveUp(n int) {
	l.selected = max(0, l.selected-n)
	if l.selected < l.scrollOffset {
		l.scrollOffset = l.selected
	}
}

func (l *teamList) moveDown(n int) {
	l.selected = max(0, min(len(l.teams)-1, l.selected+n))
	if l.selected >= l.scrollOffset+l.viewHeight {
		l.scrollOffset = l.selected - l.viewHeight + 1
	}
}

func (l *teamList) setViewHeight(h int) {
	l.viewHeight = max(1, h)
	if l.selected >= l.scrollOffset+l.viewHeight {
		l.scrollOffset = l.selected - l.viewHeight + 1
	}
}

func (l *teamList) View() string {
	if len(l.teams) == 0 {
		return dimStyle.Width(listWidth).Render("No teams in this region")
	}

	var b strings.Builder
	if l.scrollOffset > 0 {
		b.WriteString(dimStyle.Render("↑"))
	}
	b.WriteString("\n")

	end := min(l.scrollOffset+l.viewHeight, len(l.teams))
	for i := l.scrollOffset; i < end; i++ {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(modalFg)
		if i == l.selected {
			prefix = "▶ "
			style = selectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%3d %s", prefix, i+1, l.teams[i].Team)) + "\n")
	}

	if end < len(l.teams) {
		b.WriteString(dimStyle.Render("↓"))
	}

	return lipgloss.NewStyle().Width(listWidth).Render(b.String())
}

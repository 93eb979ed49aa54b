package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// chromeLines is everything above and below the team list: title, tabs,
// frame borders and the status line.
const chromeLines = 7

type browserModel struct {
	path    string
	window  rom.ScanWindow
	loading bool
	err     error
	layout  *rom.Layout
	teams   *team.Teams
	region  team.Category
	lists   [3]*teamList
	details detailCache
	spinner spinner.Model

	termWidth  int
	termHeight int
}

func newBrowserModel(path string, w rom.ScanWindow) *browserModel {
	return &browserModel{
		path:       path,
		window:     w,
		details:    newDetailCache(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205")))),
		termWidth:  120,
		termHeight: 40,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.reload()
}

func (m *browserModel) reload() tea.Cmd {
	m.loading = true
	m.err = nil
	return tea.Batch(m.spinner.Tick, loadRom(m.path, m.window))
}

func (m *browserModel) listHeight() int {
	return max(1, m.termHeight-chromeLines-2)
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case romLoadedMessage:
		m.loading = false
		m.layout = msg.layout
		m.teams = msg.teams
		m.details = newDetailCache()
		for _, c := range team.Categories {
			m.lists[c] = newTeamList(msg.teams.Region(c), m.listHeight())
		}
		return m, nil
	case romErrorMessage:
		m.loading = false
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		for _, l := range m.lists {
			if l != nil {
				l.setViewHeight(m.listHeight())
			}
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *browserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" && !m.loading {
		return m, m.reload()
	}
	if m.teams == nil {
		return m, nil
	}
	l := m.lists[m.region]
	switch msg.String() {
	case "tab", "right", "l":
		m.region = (m.region + 1) % team.Category(len(team.Categories))
	case "shift+tab", "left", "h":
		m.region = (m.region + team.Category(len(team.Categories)) - 1) % team.Category(len(team.Categories))
	case "1", "2", "3":
		m.region = team.Category(msg.String()[0] - '1')
	case "up", "k":
		l.moveUp(1)
	case "down", "j":
		l.moveDown(1)
	case "pgup", "K":
		l.moveUp(10)
	case "pgdown", "J":
		l.moveDown(10)
	case "home", "g":
		l.moveUp(len(l.teams))
	case "end", "G":
		l.moveDown(len(l.teams))
	}
	return m, nil
}

func (m *browserModel) renderTabs() string {
	tabs := make([]string, 0, len(team.Categories))
	for _, c := range team.Categories {
		label := fmt.Sprintf("%d %s", c+1, c)
		if m.teams != nil {
			label += fmt.Sprintf(" (%d)", len(m.teams.Region(c)))
		}
		if c == m.region {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *browserModel) renderStatus() string {
	l := m.layout
	used := l.Table.Regions[team.Custom].End - l.Table.Regions[team.National].Start
	free := l.Available() - used
	return fmt.Sprintf("%s  %s edition  %d teams  %s / %s bytes used (%s free)  %s",
		boolToIcon(free >= 0), l.Edition(), l.TeamCount(),
		humanize.Comma(int64(used)), humanize.Comma(int64(l.Available())), humanize.Bytes(uint64(max(0, free))),
		dimStyle.Render("? help"))
}

func (m *browserModel) View() string {
	var b strings.Builder

	title := titleStyle.Render("Sensible Soccer teams") + " " + dimStyle.Render(filepath.Base(m.path))
	if m.loading {
		title += " " + m.spinner.View() + " loading"
	}
	b.WriteString(title + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
		b.WriteString(dimStyle.Render("[r] retry  [q] quit"))
		return b.String()
	}
	if m.teams == nil {
		return b.String()
	}

	b.WriteString(m.renderTabs() + "\n")

	list := m.lists[m.region]
	detail := ""
	if t, ok := list.current(); ok {
		detail = detailView(m.details, detailKey{category: m.region, index: list.selected}, t)
	}
	divider := dimStyle.Render(strings.Repeat("│\n", m.listHeight()+1) + "│")
	body := lipgloss.JoinHorizontal(lipgloss.Top, list.View(), divider, detail)
	b.WriteString(frameStyle.Width(max(listWidth+4, m.termWidth-2)).Render(body) + "\n")

	b.WriteString(statusStyle.Width(max(0, m.termWidth)).Render(m.renderStatus()))
	return b.String()
}

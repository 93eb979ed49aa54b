// Package tui is a terminal browser for the teams stored in a ROM image.
package tui

import (
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

type UIModel struct {
	browser           tea.Model
	foreground        tea.Model
	overlay           tea.Model
	foregroundVisible bool
}

// NewUIModel browses the image at path, locating its teams within w.
func NewUIModel(path string, w rom.ScanWindow) *UIModel {
	return &UIModel{
		browser:    newBrowserModel(path, w),
		foreground: &foregroundModel{},
	}
}

func (m *UIModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.browser.Init(), m.foreground.Init()}

	m.foregroundVisible = false
	m.overlay = overlay.New(m.foreground, m.browser, overlay.Center, overlay.Center, 0, 0)
	cmds = append(cmds, m.overlay.Init())

	return tea.Batch(cmds...)
}

func (m *UIModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}

	passToBrowser := func() {
		bm, bmCmd := m.browser.Update(message)
		m.browser = bm
		cmds = append(cmds, bmCmd)
	}

	passToForeground := func() {
		fm, fmCmd := m.foreground.Update(message)
		m.foreground = fm
		cmds = append(cmds, fmCmd)
	}

	switch msg := message.(type) {
	case romLoadedMessage:
		if fm, ok := m.foreground.(*foregroundModel); ok {
			fm.SetLayout(msg.layout)
		}
		passToBrowser()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.foregroundVisible = false
			return m, nil
		case "?", "i":
			m.foregroundVisible = true
		}
		if !m.foregroundVisible {
			passToBrowser()
		} else {
			passToForeground()
		}
	default:
		passToBrowser()
		passToForeground()
	}

	return m, tea.Batch(cmds...)
}

func (m *UIModel) View() string {
	if m.foregroundVisible {
		return m.overlay.View()
	}
	return m.browser.View()
}

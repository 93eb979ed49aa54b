package tui

import (
	"fmt"
	"os"

	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	tea "github.com/charmbracelet/bubbletea"
)

type romLoadedMessage struct {
	path   string
	layout *rom.Layout
	teams  *team.Teams
}

type romErrorMessage struct {
	err error
}

// loadRom reads and decodes the image at path off the update loop.
func loadRom(path string, w rom.ScanWindow) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return romErrorMessage{err: fmt.Errorf("could not read rom: %w", err)}
		}
		layout, err := w.Inspect(data)
		if err != nil {
			return romErrorMessage{err: fmt.Errorf("could not locate teams: %w", err)}
		}
		teams, err := layout.Decode(data)
		if err != nil {
			return romErrorMessage{err: fmt.Errorf("could not decode teams: %w", err)}
		}
		return romLoadedMessage{path: path, layout: layout, teams: teams}
	}
}

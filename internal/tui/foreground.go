package tui

import (
	"fmt"
	"strings"

	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type foregroundType int

const (
	Help foregroundType = iota
	RomInfo
)

type foregroundModel struct {
	fgType foregroundType
	layout *rom.Layout
}

func (h *foregroundModel) Init() tea.Cmd {
	return nil
}

func (h *foregroundModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := message.(tea.KeyMsg); ok {
		switch msg.String() {
		case "?":
			h.fgType = Help
		case "i":
			h.fgType = RomInfo
		}
	}
	return h, nil
}

func (h *foregroundModel) SetLayout(l *rom.Layout) {
	h.layout = l
}

func (h *foregroundModel) View() string {
	switch h.fgType {
	case Help:
		return renderHelpModal()
	case RomInfo:
		return renderInfoModal(h.layout)
	}
	return ""
}

func renderHelpModal() string {
	helpContent := `Sensible Soccer teams - Controls

Regions:
  [tab/→]  Next region
  [S-tab/←] Previous region
  [1-3]    National, club, custom

Team list:
  [j/↓]    Next team
  [k/↑]    Previous team
  [J]      Down 10 teams
  [K]      Up 10 teams
  [g]      First team
  [G]      Last team

General:
  [i]      ROM layout
  [r]      Reload ROM
  [?]      Show this help
  [q]      Quit application

Press [Esc] to close this help`

	helpModalStyle := modalStyle.
		Width(45).
		MaxWidth(50).
		Align(lipgloss.Left)

	return helpModalStyle.Render(helpContent)
}

func renderInfoModal(l *rom.Layout) string {
	infoStyle := modalStyle.Width(60).Align(lipgloss.Left)
	if l == nil {
		return infoStyle.Render("No ROM loaded")
	}

	var b strings.Builder
	b.WriteString("ROM layout\n\n")
	fmt.Fprintf(&b, "Size:     %s\n", humanize.Bytes(uint64(l.Size)))
	fmt.Fprintf(&b, "Edition:  %s\n", l.Edition())
	fmt.Fprintf(&b, "Pointers: 0x%06X\n\n", l.Table.Base)
	for _, c := range team.Categories {
		r := l.Table.Regions[c]
		fmt.Fprintf(&b, "%-9s 0x%06X-0x%06X %3d teams %8s\n", c, r.Start, r.End, len(l.Blocks[c]), humanize.Bytes(uint64(r.Len())))
	}
	fmt.Fprintf(&b, "\nCeiling:  0x%06X\n\nPress [Esc] to close", l.Ceiling)
	return infoStyle.Render(b.String())
}

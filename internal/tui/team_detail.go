package tui

import (
	"fmt"
	"strings"

	"github.com/JackWithOneEye/sensiedit/internal/lrucache"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/charmbracelet/lipgloss"
)

type detailKey struct {
	category team.Category
	index    int
}

// detailCache holds rendered detail panes by region and index.
type detailCache = lrucache.LruCache[detailKey, string]

func newDetailCache() detailCache {
	return lrucache.NewLruCache[detailKey, string](128)
}

func kitRow(label string, k team.KitColours) string {
	return fmt.Sprintf("%-7s %-10s %s %s  %s  %s",
		label, k.Style, swatch(k.Shirt1), swatch(k.Shirt2), swatch(k.Shorts), swatch(k.Socks))
}

func renderTeam(t *team.Team) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(t.Team))
	if t.Country != "" && t.Country != t.Team {
		b.WriteString(dimStyle.Render(" (" + t.Country + ")"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Coach:  %s\n", t.Coach)
	fmt.Fprintf(&b, "Tactic: %-6s Skill: %d  Flag: %d\n\n", t.Tactic, t.Skill, t.Flag)

	if t.Kit != nil {
		b.WriteString(dimStyle.Render("Kit     style      shirt  shorts socks") + "\n")
		b.WriteString(kitRow("first", t.Kit.First) + "\n")
		b.WriteString(kitRow("second", t.Kit.Second) + "\n\n")
	}

	b.WriteString(dimStyle.Render(" No  Name                      Position           Role        Head") + "\n")
	for _, p := range t.Players {
		fmt.Fprintf(&b, "%s%2d  %-25s %-18s %-11s %s\n",
			starIcon(p.Star), p.Number, p.Name, p.Position, p.Role, p.Head)
	}
	return strings.TrimRight(b.String(), "\n")
}

// detailView renders t, reusing the cached pane for key when present.
func detailView(cache detailCache, key detailKey, t *team.Team) string {
	if s, ok := cache.Get(key); ok {
		return s
	}
	s := lipgloss.NewStyle().Padding(0, 1).Render(renderTeam(t))
	cache.Add(key, s)
	return s
}

// Package rom finds the team regions inside a cartridge image, walks their
// block chains, and reassembles edited regions into a patched copy.
package rom

import (
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/block"
	"github.com/JackWithOneEye/sensiedit/internal/team"
)

// Edition names the cartridge variant a layout was recognised as.
type Edition string

const (
	Standard      Edition = "standard"
	International Edition = "international"
)

// internationalCustomTeams is the custom region size only the
// international edition ships with.
const internationalCustomTeams = 64

// Layout is the located structure of an image.
type Layout struct {
	Size  int
	Table PointerTable
	// Blocks holds the block offsets of each region, indexed by category.
	Blocks [3][]int
	// Ceiling is the first offset past the writable team area.
	Ceiling int
}

func (l *Layout) Counts() [3]int {
	var n [3]int
	for c, b := range l.Blocks {
		n[c] = len(b)
	}
	return n
}

func (l *Layout) TeamCount() int {
	n := l.Counts()
	return n[0] + n[1] + n[2]
}

// Available is the number of bytes the three regions and their gaps may
// occupy.
func (l *Layout) Available() int {
	return l.Ceiling - l.Table.Regions[team.National].Start
}

func (l *Layout) Edition() Edition {
	if len(l.Blocks[team.Custom]) == internationalCustomTeams {
		return International
	}
	return Standard
}

// Inspect locates the pointer table and walks every region.
func (w ScanWindow) Inspect(rom []byte) (*Layout, error) {
	pt, err := w.FindPointerTable(rom)
	if err != nil {
		return nil, err
	}
	l := &Layout{Size: len(rom), Table: pt}
	for _, c := range team.Categories {
		r := pt.Regions[c]
		offsets, err := WalkRegion(rom, r.Start, r.End)
		if err != nil {
			return nil, fmt.Errorf("%s region: %w", c, err)
		}
		l.Blocks[c] = offsets
	}
	l.Ceiling = ceiling(rom, pt.Regions[team.Custom].End)
	return l, nil
}

// Decode reads every team of every region.
func (w ScanWindow) Decode(rom []byte) (*team.Teams, error) {
	l, err := w.Inspect(rom)
	if err != nil {
		return nil, err
	}
	return l.Decode(rom)
}

// Decode reads the teams at the layout's block offsets.
func (l *Layout) Decode(rom []byte) (*team.Teams, error) {
	teams := &team.Teams{}
	for _, c := range team.Categories {
		region := make([]team.Team, 0, len(l.Blocks[c]))
		for _, off := range l.Blocks[c] {
			t, err := block.Decode(rom, off)
			if err != nil {
				return nil, fmt.Errorf("%s region: %w", c, err)
			}
			region = append(region, t)
		}
		teams.SetRegion(c, region)
	}
	return teams, nil
}

// Inspect uses the default window.
func Inspect(rom []byte) (*Layout, error) {
	return DefaultWindow.Inspect(rom)
}

// Decode uses the default window.
func Decode(rom []byte) (*team.Teams, error) {
	return DefaultWindow.Decode(rom)
}

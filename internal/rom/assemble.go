package rom

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/JackWithOneEye/sensiedit/internal/block"
	"github.com/JackWithOneEye/sensiedit/internal/team"
)

// regionGap is the zero word the game expects between consecutive regions.
const regionGap = 2

// BuildRegion re-encodes teams over the blocks at blockOffsets, one team per
// block, each on top of its block's previous attribute segment. It also
// returns how many teams had any of their text changed.
func BuildRegion(rom []byte, blockOffsets []int, teams []team.Team) ([]byte, int, error) {
	if len(teams) != len(blockOffsets) {
		return nil, 0, fmt.Errorf("%w: %d teams for %d blocks", ErrTeamCount, len(teams), len(blockOffsets))
	}
	var (
		out     []byte
		changed int
	)
	for i, off := range blockOffsets {
		if off+block.AttrSize > len(rom) {
			return nil, 0, fmt.Errorf("block at 0x%06X runs past end of rom", off)
		}
		b, err := block.Build(rom[off:off+block.AttrSize], &teams[i])
		if err != nil {
			return nil, 0, fmt.Errorf("team %d: %w", i+1, err)
		}
		if len(b) > block.MaxSize {
			return nil, 0, fmt.Errorf("team %d %q: %w", i+1, teams[i].Team, &BadBlockSizeError{Size: len(b), Offset: off})
		}
		old := block.DecodeText(rom, off+block.AttrSize)
		if !slices.Equal(old.Strings(), teams[i].Strings()) {
			changed++
		}
		out = append(out, b...)
	}
	return out, changed, nil
}

// Report summarises a patch.
type Report struct {
	Previous PointerTable
	Table    PointerTable
	Teams    [3]int
	Changes  [3]int
	// Used is the size of the rewritten team data including region gaps.
	Used int
	// Available is the writable span from the national start up to the
	// first non-zero word after the old custom region.
	Available int
}

func (r *Report) Changed() int {
	return r.Changes[0] + r.Changes[1] + r.Changes[2]
}

func (r *Report) Free() int {
	return r.Available - r.Used
}

// ceiling returns the end of the writable area: the first non-zero word at
// or after from, scanning in word steps. With no such word the area ends at
// from.
func ceiling(rom []byte, from int) int {
	for pos := from; pos+2 <= len(rom); pos += 2 {
		if binary.BigEndian.Uint16(rom[pos:]) != 0 {
			return pos
		}
	}
	return from
}

// Patch rebuilds all three regions from teams and returns a patched copy of
// src. src itself is never modified; on error no image is returned.
func (w ScanWindow) Patch(src []byte, teams *team.Teams) ([]byte, *Report, error) {
	l, err := w.Inspect(src)
	if err != nil {
		return nil, nil, err
	}
	rep := &Report{Previous: l.Table, Teams: l.Counts(), Available: l.Available()}

	var (
		combined []byte
		bounds   [3]Region
	)
	pos := l.Table.Regions[team.National].Start
	for _, c := range team.Categories {
		if c != team.National {
			combined = append(combined, make([]byte, regionGap)...)
			pos += regionGap
		}
		data, changed, err := BuildRegion(src, l.Blocks[c], teams.Region(c))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", c, err)
		}
		bounds[c] = Region{Start: pos, End: pos + len(data)}
		rep.Changes[c] = changed
		combined = append(combined, data...)
		pos += len(data)
	}
	rep.Used = len(combined)
	if rep.Used > rep.Available {
		return nil, rep, &OverflowError{Size: rep.Used, Available: rep.Available}
	}

	out := slices.Clone(src)
	start := l.Table.Regions[team.National].Start
	copy(out[start:], combined)
	oldEnd := l.Table.Regions[team.Custom].End
	if tail := start + len(combined); tail < oldEnd {
		clear(out[tail:oldEnd])
	}

	rep.Table = PointerTable{Base: l.Table.Base, Regions: bounds}
	copy(out[rep.Table.Base:], rep.Table.Bytes())
	return out, rep, nil
}

// Update returns a copy of src carrying teams.
func (w ScanWindow) Update(src []byte, teams *team.Teams) ([]byte, error) {
	out, _, err := w.Patch(src, teams)
	return out, err
}

// Patch rebuilds with the default window.
func Patch(src []byte, teams *team.Teams) ([]byte, *Report, error) {
	return DefaultWindow.Patch(src, teams)
}

// Update rebuilds with the default window.
func Update(src []byte, teams *team.Teams) ([]byte, error) {
	return DefaultWindow.Update(src, teams)
}

package rom

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/block"
	"github.com/JackWithOneEye/sensiedit/internal/charset"
	"github.com/JackWithOneEye/sensiedit/internal/team"
)

// ScanWindow bounds the heuristic searches over an image.
type ScanWindow struct {
	// TeamStart and TeamEnd delimit the byte scan for team text.
	TeamStart int
	TeamEnd   int
	// TableLimit is the exclusive upper bound of the pointer table search.
	TableLimit int
	// A table is only accepted when the national region starts strictly
	// between these two addresses.
	MinRegionStart int
	MaxRegionStart int
}

var DefaultWindow = ScanWindow{
	TeamStart:      0x020000,
	TeamEnd:        0x030000,
	TableLimit:     0x030000,
	MinRegionStart: 0x010000,
	MaxRegionStart: 0x040000,
}

const (
	minNameLen = 3
	maxNameLen = 25
	// skipAfterMatch is how far past a matched record's text the scan jumps.
	// No two team texts start this close together.
	skipAfterMatch = 100
)

// Region is a half-open byte range holding one category of teams.
type Region struct {
	Start int
	End   int
}

func (r Region) Len() int { return r.End - r.Start }

// PointerTable is the six-longword table locating the three regions:
// national, club and custom starts followed by the three ends.
type PointerTable struct {
	Base    int
	Regions [3]Region
}

const tableSize = 24

func readTable(rom []byte, base int) (PointerTable, bool) {
	if base < 0 || base+tableSize > len(rom) {
		return PointerTable{}, false
	}
	var v [6]int
	for i := range v {
		v[i] = int(binary.BigEndian.Uint32(rom[base+4*i:]))
	}
	pt := PointerTable{Base: base}
	for c := range pt.Regions {
		pt.Regions[c] = Region{Start: v[c], End: v[c+3]}
	}
	return pt, true
}

// Bytes encodes the table as it is stored in the image.
func (p PointerTable) Bytes() []byte {
	b := make([]byte, tableSize)
	for c, r := range p.Regions {
		binary.BigEndian.PutUint32(b[4*c:], uint32(r.Start))
		binary.BigEndian.PutUint32(b[12+4*c:], uint32(r.End))
	}
	return b
}

// Valid reports whether the table describes three non-empty, ordered,
// non-overlapping regions with the national region inside the window.
// Regions need not be adjacent: the game leaves a two-byte gap between
// them, but a table whose next region starts at any offset at or past
// the previous end is accepted.
func (p PointerTable) Valid(w ScanWindow) bool {
	n, c, u := p.Regions[team.National], p.Regions[team.Club], p.Regions[team.Custom]
	return n.Start < c.Start && c.Start < u.Start &&
		n.Start < n.End && n.End <= c.Start &&
		c.Start < c.End && c.End <= u.Start &&
		u.Start < u.End &&
		w.MinRegionStart < n.Start && n.Start < w.MaxRegionStart
}

func (p PointerTable) String() string {
	return fmt.Sprintf("table@0x%06X national=0x%06X-0x%06X club=0x%06X-0x%06X custom=0x%06X-0x%06X",
		p.Base,
		p.Regions[0].Start, p.Regions[0].End,
		p.Regions[1].Start, p.Regions[1].End,
		p.Regions[2].Start, p.Regions[2].End)
}

// teamTextAt is the acceptance test for a candidate text offset: a
// plausible team name, a known country, then a plausible coach and first
// player. It returns the offset just past the first player's name.
func teamTextAt(rom []byte, off int) (int, bool) {
	c := charset.Cursor{Byte: off}
	name, c := charset.Decode(rom, c)
	if !plausibleName(name) {
		return 0, false
	}
	country, c := charset.Decode(rom, c)
	if !team.IsKnownCountry(country) {
		return 0, false
	}
	coach, c := charset.Decode(rom, c)
	if !plausibleName(coach) {
		return 0, false
	}
	player, c := charset.Decode(rom, c)
	if !plausibleName(player) {
		return 0, false
	}
	return c.ByteEnd(), true
}

func plausibleName(s string) bool {
	return len(s) >= minNameLen && len(s) <= maxNameLen
}

// FindTeams scans [start, end) byte by byte for team text and returns the
// text offset of every match.
func FindTeams(rom []byte, start, end int) ([]int, error) {
	end = min(end, len(rom))
	var found []int
	for off := max(start, 0); off < end; {
		textEnd, ok := teamTextAt(rom, off)
		if !ok {
			off++
			continue
		}
		found = append(found, off)
		off = textEnd + skipAfterMatch
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w between 0x%06X and 0x%06X", ErrNoTeamsFound, start, end)
	}
	return found, nil
}

// tableCandidates lists every place below limit where addr is stored as a
// big endian longword.
func tableCandidates(rom []byte, addr, limit int) []int {
	var needle [4]byte
	binary.BigEndian.PutUint32(needle[:], uint32(addr))
	hay := rom[:min(limit, len(rom))]

	var out []int
	for pos := 0; pos < len(hay); {
		i := bytes.Index(hay[pos:], needle[:])
		if i < 0 {
			break
		}
		out = append(out, pos+i)
		pos += i + 1
	}
	return out
}

// FindPointerTable locates team text, then looks for a longword pointing at
// the start of one of those blocks. Each hit may be the national, club or
// custom start slot of the table; the first reading that validates wins.
func (w ScanWindow) FindPointerTable(rom []byte) (PointerTable, error) {
	texts, err := FindTeams(rom, w.TeamStart, w.TeamEnd)
	if err != nil {
		return PointerTable{}, err
	}
	for _, text := range texts {
		blockStart := text - block.AttrSize
		if blockStart < 0 {
			continue
		}
		for _, hit := range tableCandidates(rom, blockStart, w.TableLimit) {
			for slot := range 3 {
				pt, ok := readTable(rom, hit-4*slot)
				if ok && pt.Valid(w) {
					return pt, nil
				}
			}
		}
	}
	return PointerTable{}, ErrPointerTableNotFound
}

// FindPointerTable searches with the default window.
func FindPointerTable(rom []byte) (PointerTable, error) {
	return DefaultWindow.FindPointerTable(rom)
}

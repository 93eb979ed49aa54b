// Package romtest builds synthetic cartridge images for tests: a code area
// holding the region pointer table, three chained team regions and trailing
// non-team data that bounds the writable area.
package romtest

import (
	"encoding/binary"
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/block"
	"github.com/JackWithOneEye/sensiedit/internal/team"
)

var formation = []string{
	"goalkeeper", "right_back", "left_back", "centre_back", "defender",
	"right_midfielder", "centre_midfielder", "left_midfielder", "midfielder",
	"forward", "second_forward",
}

var slotRoles = []string{
	"goalkeeper", "defender", "defender", "defender", "defender",
	"midfielder", "midfielder", "midfielder", "midfielder",
	"forward", "forward",
}

// Squad returns a complete team: 11 starters covering every pitch slot and
// five substitutes. Missing player names are generated.
func Squad(name, country, coach string, players ...string) team.Team {
	t := team.Team{
		Team:    name,
		Country: country,
		Coach:   coach,
		Tactic:  team.Named("4-4-2"),
		Skill:   3,
		Kit: &team.Kit{
			First:  team.KitColours{Style: team.Named("plain"), Shirt1: team.Named("white"), Shirt2: team.Named("white"), Shorts: team.Named("blue"), Socks: team.Named("white")},
			Second: team.KitColours{Style: team.Named("sleeves"), Shirt1: team.Named("red"), Shirt2: team.Named("red"), Shorts: team.Named("white"), Socks: team.Named("red")},
		},
		Players: make([]team.Player, team.PlayerCount),
	}
	for i := range t.Players {
		p := team.Player{Number: i + 1, Head: team.Named("white_dark")}
		if i < len(players) {
			p.Name = players[i]
		} else {
			p.Name = fmt.Sprintf("PLAYER %s", string(rune('A'+i)))
		}
		if i < team.PitchSlots {
			p.Position = team.Named(formation[i])
			p.Role = team.Named(slotRoles[i])
		} else {
			p.Position = team.Named("sub")
			p.Role = team.Named(slotRoles[(i*3)%team.PitchSlots])
		}
		if i == 9 {
			p.Star = true
		}
		t.Players[i] = p
	}
	return t
}

// Layout describes a synthetic image.
type Layout struct {
	Size    int
	TableAt int
	DataAt  int
	// Slack is the run of zero bytes between the custom region end and the
	// next non-zero data.
	Slack    int
	National []team.Team
	Club     []team.Team
	Custom   []team.Team
	// Foreign bytes are written over the built blocks, standing in for
	// attribute bytes this encoder would never produce itself.
	Foreign []Foreign
}

// Foreign overwrites one attribute byte of one block after it is built.
type Foreign struct {
	Category team.Category
	Team     int
	Offset   int
	Value    byte
}

// Regions records where Build placed each region and its blocks.
type Regions struct {
	Start  [3]int
	End    [3]int
	Blocks [3][]int
}

func DefaultLayout() Layout {
	return Layout{
		Size:    0x40000,
		TableAt: 0x1200,
		DataAt:  0x24000,
		Slack:   64,
		National: []team.Team{
			Squad("ENGLAND", "ENGLAND", "VENABLES", "SEAMAN", "DIXON", "PEARCE", "ADAMS", "PALLISTER", "PLATT", "INCE", "GASCOIGNE", "BARNES", "SHEARER", "WRIGHT"),
			Squad("ITALY", "ITALY", "SACCHI", "PAGLIUCA", "BARESI", "MALDINI"),
			Squad("HOLLAND", "HOLLAND", "ADVOCAAT", "DE GOEY", "KOEMAN", "RIJKAARD"),
		},
		Club: []team.Team{
			Squad("ARSENAL", "ENGLAND", "GRAHAM"),
			Squad("AC MILAN", "ITALY", "CAPELLO"),
		},
		Custom: []team.Team{
			Squad("SENSIBLE XI", "ENGLAND", "JON HARE"),
			Squad("RENEGADES", "SCOTLAND", "O'BRIEN"),
		},
	}
}

// Build lays the image out. Every block keeps non-zero filler in the
// unmodelled bytes of its player records so round-trips can prove they
// survive.
func (l Layout) Build() ([]byte, Regions, error) {
	rom := make([]byte, l.Size)
	for i := 0x200; i < l.TableAt; i += 2 {
		binary.BigEndian.PutUint16(rom[i:], 0x4e71) // nop
	}

	var r Regions
	pos := l.DataAt
	for c, teams := range [][]team.Team{l.National, l.Club, l.Custom} {
		r.Start[c] = pos
		for i := range teams {
			b, err := block.Build(filler(), &teams[i])
			if err != nil {
				return nil, r, err
			}
			if pos+len(b) > len(rom) {
				return nil, r, fmt.Errorf("layout overflows %d byte image", len(rom))
			}
			copy(rom[pos:], b)
			r.Blocks[c] = append(r.Blocks[c], pos)
			pos += len(b)
		}
		r.End[c] = pos
		pos += 2
	}

	for _, f := range l.Foreign {
		if f.Team >= len(r.Blocks[f.Category]) || f.Offset < 2 || f.Offset >= block.AttrSize {
			return nil, r, fmt.Errorf("foreign byte %+v is outside the attribute segments", f)
		}
		rom[r.Blocks[f.Category][f.Team]+f.Offset] = f.Value
	}

	for i, v := range []int{r.Start[0], r.Start[1], r.Start[2], r.End[0], r.End[1], r.End[2]} {
		binary.BigEndian.PutUint32(rom[l.TableAt+4*i:], uint32(v))
	}

	trailer := r.End[2] + l.Slack
	for i := trailer; i < trailer+32 && i < len(rom); i++ {
		rom[i] = 0xa5
	}
	return rom, r, nil
}

func filler() []byte {
	attrs := make([]byte, block.AttrSize)
	for i := range team.PlayerCount {
		rec := 22 + i*8
		copy(attrs[rec+4:rec+8], []byte{0x00, byte(i), 0x80, 0x01})
	}
	return attrs
}

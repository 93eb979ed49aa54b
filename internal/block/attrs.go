package block

import (
	"encoding/binary"
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/team"
)

// Attribute segment layout, offsets from the block start.
const (
	AttrSize = 150

	sizeOffset    = 0
	kitOffset     = 8
	kitStride     = 5
	tacticDefault = 18
	tacticActive  = 19
	unusedOffset  = 20
	skillOffset   = 21
	playersOffset = 22
	playerStride  = 8
)

// PositionOffsets are where the 19 packed text positions live: team,
// country and coach, then the first word of each player record.
var PositionOffsets = [StringCount]int{2, 4, 6, 22, 30, 38, 46, 54, 62, 70, 78, 86, 94, 102, 110, 118, 126, 134, 142}

// StringCount is the number of strings in a block's text segment.
const StringCount = 3 + team.PlayerCount

// Size reads the block size field.
func Size(attrs []byte) int {
	return int(binary.BigEndian.Uint16(attrs[sizeOffset:]))
}

// DecodeAttributes reads every non-text field of the attribute segment into
// a team. Text fields are left empty and Players holds exactly 16 entries.
func DecodeAttributes(attrs []byte) team.Team {
	t := team.Team{
		Tactic:  team.Tactics.Code(int(attrs[tacticActive])),
		Skill:   int(attrs[skillOffset]>>3) & 0x07,
		Flag:    int(attrs[skillOffset] & 0x01),
		Kit:     decodeKit(attrs),
		Players: make([]team.Player, team.PlayerCount),
	}
	for i := range t.Players {
		rec := playersOffset + i*playerStride + 2
		slot, app := attrs[rec], attrs[rec+1]
		t.Players[i] = team.Player{
			Number:   int(slot&0x0f) + 1,
			Position: team.Positions.Code(int(slot >> 4)),
			Role:     team.Roles.Code(int(app>>2) & 0x03),
			Head:     team.Heads.Code(int(app & 0x03)),
			Star:     (app>>4)&0x01 == 1,
		}
	}
	return t
}

func decodeKit(attrs []byte) *team.Kit {
	colours := func(b int) team.KitColours {
		return team.KitColours{
			Style:  team.Styles.Code(int(attrs[b])),
			Shirt1: team.Colours.Code(int(attrs[b+1])),
			Shirt2: team.Colours.Code(int(attrs[b+2])),
			Shorts: team.Colours.Code(int(attrs[b+3])),
			Socks:  team.Colours.Code(int(attrs[b+4])),
		}
	}
	return &team.Kit{First: colours(kitOffset), Second: colours(kitOffset + kitStride)}
}

// ApplyKit writes both kits into bytes 8-17.
func ApplyKit(attrs []byte, kit *team.Kit) error {
	b := kitOffset
	for _, k := range []team.KitColours{kit.First, kit.Second} {
		style, err := team.Styles.ResolveOr(k.Style, team.DefaultStyle)
		if err != nil {
			return err
		}
		attrs[b] = byte(style)
		for i, c := range []team.Code{k.Shirt1, k.Shirt2, k.Shorts, k.Socks} {
			v, err := team.Colours.ResolveOr(c, team.DefaultColour)
			if err != nil {
				return err
			}
			attrs[b+1+i] = byte(v)
		}
		b += kitStride
	}
	return nil
}

// ApplyTeam writes the tactic, skill and flag into bytes 18-21. The tactic
// always goes to both copies so they cannot diverge.
func ApplyTeam(attrs []byte, t *team.Team) error {
	tactic, err := team.Tactics.ResolveOr(t.Tactic, team.DefaultTactic)
	if err != nil {
		return err
	}
	attrs[tacticDefault] = byte(tactic)
	attrs[tacticActive] = byte(tactic)
	attrs[unusedOffset] = 0
	attrs[skillOffset] = byte(t.Skill&0x07)<<3 | byte(t.Flag&0x01)
	return nil
}

// ApplyPlayers writes slot/number and appearance bytes of each player record.
// The packed text position and the four trailing bytes are left untouched.
func ApplyPlayers(attrs []byte, players []team.Player) error {
	if len(players) > team.PlayerCount {
		return fmt.Errorf("%d players do not fit %d records", len(players), team.PlayerCount)
	}
	for i, p := range players {
		pos, err := team.Positions.ResolveOr(p.Position, team.DefaultPosition)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		role, err := team.Roles.ResolveOr(p.Role, team.DefaultRole)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		head, err := team.Heads.ResolveOr(p.Head, team.DefaultHead)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		var star byte
		if p.Star {
			star = 1
		}
		num := p.Number
		if num == 0 {
			num = 1 // missing
		}
		rec := playersOffset + i*playerStride + 2
		attrs[rec] = byte(pos&0x0f)<<4 | byte((num-1)&0x0f)
		attrs[rec+1] = star<<4 | byte(role&0x03)<<2 | byte(head&0x03)
	}
	return nil
}

// Package block encodes and decodes one team record as stored in the ROM:
// a 150-byte attribute segment, a 5-bit packed text segment holding 19
// terminated strings, and an optional pad byte that keeps the block even.
package block

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/charset"
	"github.com/JackWithOneEye/sensiedit/internal/team"
)

// Block sizes outside this range mean the data is not a team block.
const (
	MinSize = 160
	MaxSize = 500
)

var ErrTextTooLong = errors.New("text too long")

// TextTooLongError reports a string the decoder's symbol cap would cut
// short, desynchronising every later string of the block.
type TextTooLongError struct {
	// Index is the string's position in on-disk order.
	Index int
	Text  string
}

func (e *TextTooLongError) Error() string {
	return fmt.Sprintf("%s: %s '%s' is %d characters, the limit is %d",
		ErrTextTooLong, stringName(e.Index), e.Text, len(e.Text), charset.MaxChars)
}

func (e *TextTooLongError) Unwrap() error {
	return ErrTextTooLong
}

func stringName(i int) string {
	switch i {
	case 0:
		return "team"
	case 1:
		return "country"
	case 2:
		return "coach"
	}
	return fmt.Sprintf("player %d", i-2)
}

// Text is the decoded text segment of a block.
type Text struct {
	Team    string
	Country string
	Coach   string
	Players [team.PlayerCount]string
	// Bits is the number of bits consumed from the text start.
	Bits int
	// End is the offset of the first byte past the text.
	End int
}

// DecodeText reads the 19 strings starting at textOffset, threading the
// cursor from each string to the next.
func DecodeText(rom []byte, textOffset int) Text {
	var s [StringCount]string
	c := charset.Cursor{Byte: textOffset}
	for i := range s {
		s[i], c = charset.Decode(rom, c)
	}
	t := Text{Team: s[0], Country: s[1], Coach: s[2], Bits: c.Bit, End: c.ByteEnd()}
	copy(t.Players[:], s[3:])
	return t
}

// Strings returns the 19 strings in on-disk order.
func (t *Text) Strings() []string {
	return append([]string{t.Team, t.Country, t.Coach}, t.Players[:]...)
}

// Decode reads the whole block starting at blockOffset.
func Decode(rom []byte, blockOffset int) (team.Team, error) {
	if blockOffset < 0 || blockOffset+AttrSize > len(rom) {
		return team.Team{}, fmt.Errorf("block at 0x%06X runs past end of rom", blockOffset)
	}
	t := DecodeAttributes(rom[blockOffset : blockOffset+AttrSize])
	text := DecodeText(rom, blockOffset+AttrSize)
	t.Team, t.Country, t.Coach = text.Team, text.Country, text.Coach
	for i := range t.Players {
		t.Players[i].Name = text.Players[i]
	}
	return t, nil
}

// EncodeText packs the team's 19 strings into one continuous bitstream.
// Strings over charset.MaxChars are rejected with a TextTooLongError.
func EncodeText(t *team.Team) ([]byte, error) {
	var codes []byte
	for i, s := range t.Strings() {
		if len(s) > charset.MaxChars {
			return nil, &TextTooLongError{Index: i, Text: s}
		}
		c, err := charset.Encode(s)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c...)
	}
	return charset.Pack(codes), nil
}

// Build re-encodes a team on top of base, the block's previous attribute
// segment, so bytes the editor does not model survive. A nil base starts
// from zeros. The returned block is always even in length.
func Build(base []byte, t *team.Team) ([]byte, error) {
	if len(t.Players) != team.PlayerCount {
		return nil, fmt.Errorf("team %q has %d players, expected %d", t.Team, len(t.Players), team.PlayerCount)
	}
	text, err := EncodeText(t)
	if err != nil {
		return nil, fmt.Errorf("team %q: %w", t.Team, err)
	}

	size := AttrSize + len(text) + len(text)%2
	out := make([]byte, size)
	attrs := out[:AttrSize]
	copy(attrs, base)

	for i, p := range PackedPositions(text) {
		binary.BigEndian.PutUint16(attrs[PositionOffsets[i]:], uint16(p))
	}
	if t.Kit != nil {
		if err := ApplyKit(attrs, t.Kit); err != nil {
			return nil, fmt.Errorf("team %q kit: %w", t.Team, err)
		}
	}
	if err := ApplyTeam(attrs, t); err != nil {
		return nil, fmt.Errorf("team %q: %w", t.Team, err)
	}
	if err := ApplyPlayers(attrs, t.Players); err != nil {
		return nil, fmt.Errorf("team %q: %w", t.Team, err)
	}
	binary.BigEndian.PutUint16(attrs[sizeOffset:], uint16(size))
	copy(out[AttrSize:], text)
	return out, nil
}

package block_test

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/JackWithOneEye/sensiedit/internal/block"
	"github.com/JackWithOneEye/sensiedit/internal/charset"
	"github.com/JackWithOneEye/sensiedit/internal/romtest"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAttrs(text []byte) []byte {
	return append(make([]byte, block.AttrSize), text...)
}

func TestPackedPositionsEngland(t *testing.T) {
	squad := romtest.Squad("ENGLAND", "ENGLAND", "VENABLES")
	text, err := block.EncodeText(&squad)
	require.NoError(t, err)

	positions := block.PackedPositions(text)
	require.Len(t, positions, 19)
	assert.Equal(t, block.Position(0x12c0), positions[0])

	data := withAttrs(text)
	s, _ := charset.Decode(data, positions[0].Cursor())
	assert.Equal(t, "ENGLAND", s)
	s, _ = charset.Decode(data, positions[2].Cursor())
	assert.Equal(t, "VENABLES", s)
}

func TestPackedPositionsSelfConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 200 {
		names := make([]string, block.StringCount)
		for i := range names {
			n := rng.IntN(charset.MaxChars + 1)
			var sb strings.Builder
			for range n {
				sb.WriteByte(charset.Alphabet[1+rng.IntN(len(charset.Alphabet)-1)])
			}
			names[i] = sb.String()
		}
		tm := team.Team{Team: names[0], Country: names[1], Coach: names[2], Players: make([]team.Player, team.PlayerCount)}
		for i := range tm.Players {
			tm.Players[i].Name = names[3+i]
		}

		text, err := block.EncodeText(&tm)
		require.NoError(t, err)
		data := withAttrs(text)
		for i, p := range block.PackedPositions(text) {
			assert.GreaterOrEqual(t, p.Byte(), block.AttrSize)
			assert.Less(t, p.Bit(), 16)
			assert.Zero(t, p.Byte()%2, "byte cursor is word aligned")
			s, _ := charset.Decode(data, p.Cursor())
			require.Equal(t, names[i], s, "round %d string %d", round, i)
		}
	}
}

func TestPackedPositionsMatchSequentialDecode(t *testing.T) {
	squad := romtest.Squad("REPUBLIC OF IRELAND", "REPUBLIC OF IRELAND", "JACK CHARLTON")
	text, err := block.EncodeText(&squad)
	require.NoError(t, err)
	data := withAttrs(text)

	c := charset.Cursor{Byte: block.AttrSize}
	for i, p := range block.PackedPositions(text) {
		assert.Equal(t, c.Absolute(), p.Cursor().Absolute(), "string %d", i)
		_, c = charset.Decode(data, c)
	}
}

func TestBuildAndDecode(t *testing.T) {
	squad := romtest.Squad("ITALY", "ITALY", "SACCHI", "PAGLIUCA", "BARESI")
	squad.Tactic = team.Named("5-3-2")
	squad.Skill = 6
	squad.Flag = 1

	b, err := block.Build(nil, &squad)
	require.NoError(t, err)

	size := block.Size(b)
	assert.Equal(t, len(b), size)
	assert.Zero(t, size%2)
	assert.GreaterOrEqual(t, size, block.MinSize)
	assert.LessOrEqual(t, size, block.MaxSize)
	assert.Equal(t, byte(3), b[18])
	assert.Equal(t, byte(3), b[19])
	assert.Equal(t, byte(6<<3|1), b[21])

	got, err := block.Decode(b, 0)
	require.NoError(t, err)
	assert.Equal(t, squad, got)
}

func TestBuildOddTextIsPadded(t *testing.T) {
	for n := 1; n <= 8; n++ {
		squad := romtest.Squad(strings.Repeat("A", n+2), "ENGLAND", "COACH")
		text, err := block.EncodeText(&squad)
		require.NoError(t, err)
		b, err := block.Build(nil, &squad)
		require.NoError(t, err)
		assert.Equal(t, block.AttrSize+len(text)+len(text)%2, len(b))
		if len(text)%2 == 1 {
			assert.Zero(t, b[len(b)-1])
		}
	}
}

func TestBuildPreservesBase(t *testing.T) {
	base := make([]byte, block.AttrSize)
	for i := range base {
		base[i] = 0x77
	}
	squad := romtest.Squad("WALES", "WALES", "TERRY YORATH")
	squad.Kit = nil

	b, err := block.Build(base, &squad)
	require.NoError(t, err)
	// kit bytes untouched when the team carries no kit
	assert.Equal(t, base[8:18], b[8:18])
	assert.Zero(t, b[20])
	for i := range team.PlayerCount {
		rec := 22 + i*8
		assert.Equal(t, base[rec+4:rec+8], b[rec+4:rec+8], "player %d", i)
	}
}

func TestBuildErrors(t *testing.T) {
	squad := romtest.Squad("FRANCE", "FRANCE", "HOULLIER")
	squad.Players = squad.Players[:15]
	_, err := block.Build(nil, &squad)
	assert.ErrorContains(t, err, "15 players")

	squad = romtest.Squad("FRANCE", "FRANCE", "HOULLIER")
	squad.Players[4].Name = "DESCHAMPS2"
	_, err = block.Build(nil, &squad)
	assert.ErrorIs(t, err, charset.ErrUnsupportedCharacter)

	squad = romtest.Squad("FRANCE", "FRANCE", "HOULLIER")
	squad.Players[0].Name = strings.Repeat("A", charset.MaxChars+1)
	_, err = block.Build(nil, &squad)
	assert.ErrorIs(t, err, block.ErrTextTooLong)
	var tooLong *block.TextTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, 3, tooLong.Index)
	assert.ErrorContains(t, err, "player 1 'AAAA")

	squad = romtest.Squad("FRANCE", "FRANCE", "HOULLIER")
	squad.Coach = strings.Repeat("B", charset.MaxChars)
	_, err = block.Build(nil, &squad)
	assert.NoError(t, err, "exactly the limit is accepted")

	squad = romtest.Squad("FRANCE", "FRANCE", "HOULLIER")
	squad.Tactic = team.Named("1-1-8")
	_, err = block.Build(nil, &squad)
	assert.ErrorContains(t, err, "unknown tactic")
}

func TestDecodeAttributes(t *testing.T) {
	attrs := make([]byte, block.AttrSize)
	binary.BigEndian.PutUint16(attrs, 300)
	copy(attrs[8:], []byte{2, 0x0a, 0x02, 0x03, 0x1f, 3, 0x0b, 0x0b, 0x0f, 0x0e})
	attrs[18] = 1
	attrs[19] = 5
	attrs[21] = 0x39 // skill 7, flag 1
	attrs[24] = 0xf3 // sub, number 4
	attrs[25] = 0x1e // star, forward, head 2

	tm := block.DecodeAttributes(attrs)
	assert.Equal(t, 300, block.Size(attrs))
	assert.Equal(t, team.Named("4-3-3"), tm.Tactic, "active copy wins")
	assert.Equal(t, 7, tm.Skill)
	assert.Equal(t, 1, tm.Flag)
	assert.Equal(t, team.KitColours{
		Style: team.Named("vertical"), Shirt1: team.Named("red"), Shirt2: team.Named("white"),
		Shorts: team.Named("black"), Socks: team.Raw(0x1f),
	}, tm.Kit.First)
	assert.Equal(t, team.Named("horizontal"), tm.Kit.Second.Style)
	assert.Equal(t, team.Named("yellow"), tm.Kit.Second.Shorts)

	require.Len(t, tm.Players, team.PlayerCount)
	p := tm.Players[0]
	assert.Equal(t, 4, p.Number)
	assert.Equal(t, team.Named("sub"), p.Position)
	assert.Equal(t, team.Named("forward"), p.Role)
	assert.Equal(t, team.Named("black_dark"), p.Head)
	assert.True(t, p.Star)

	p = tm.Players[1]
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, team.Named("goalkeeper"), p.Position)
	assert.False(t, p.Star)
}

func TestApplyPlayersRawCodes(t *testing.T) {
	attrs := make([]byte, block.AttrSize)
	players := []team.Player{{Number: 16, Position: team.Raw(12), Role: team.Raw(2), Head: team.Raw(1), Star: true}}
	require.NoError(t, block.ApplyPlayers(attrs, players))
	assert.Equal(t, byte(0xcf), attrs[24])
	assert.Equal(t, byte(0x19), attrs[25])

	err := block.ApplyPlayers(attrs, []team.Player{{Number: 1, Head: team.Named("bald")}})
	assert.ErrorContains(t, err, "player 1")
}

func ExamplePackedPositions() {
	squad := romtest.Squad("ENGLAND", "ENGLAND", "VENABLES")
	text, _ := block.EncodeText(&squad)
	p := block.PackedPositions(text)
	fmt.Printf("%#04x byte=%d bit=%d\n", uint16(p[1]), p[1].Byte(), p[1].Bit())
	// Output: 0x1348 byte=154 bit=8
}

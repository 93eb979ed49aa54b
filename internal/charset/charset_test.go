package charset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	codes, err := Encode("ENGLAND")
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 14, 7, 12, 1, 14, 4, 0}, codes)

	codes, err = Encode("o'neil-jr.")
	require.NoError(t, err)
	assert.Equal(t, []byte{15, 29, 14, 5, 9, 12, 28, 10, 18, 30, 0}, codes)

	codes, err = Encode("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, codes)
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode("MÜLLER")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)

	var uce *UnsupportedCharacterError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, 'Ü', uce.Char)

	assert.Equal(t, []rune{'1', '!'}, Unsupported("team1!"))
	assert.Empty(t, Unsupported("de boer"))
}

func TestPack(t *testing.T) {
	assert.Equal(t, []byte{0x08, 0x00}, Pack([]byte{1, 0}))
	assert.Empty(t, Pack(nil))
	// 11111 00001 -> 1111 1000 | 01 000000
	assert.Equal(t, []byte{0xf8, 0x40}, Pack([]byte{31, 1}))
	// eight codes fill exactly five bytes
	assert.Len(t, Pack(make([]byte, 8)), 5)
	assert.Equal(t, 5, PackedLen(8))
	assert.Equal(t, 2, PackedLen(2))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"ENGLAND", "A", "", "VAN BASTEN", "O'LEARY", "ST. JOHNSTONE",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ -'.", strings.Repeat("Z", MaxChars),
	}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			codes, err := Encode(s)
			require.NoError(t, err)
			got, next := DecodeString(Pack(codes), 0, 0)
			assert.Equal(t, s, got)
			assert.Equal(t, len(codes)*CodeBits, next)
		})
	}
}

func TestDecodeChained(t *testing.T) {
	var all []byte
	names := []string{"ITALY", "ITALY", "SACCHI", "ZENGA"}
	for _, n := range names {
		codes, err := Encode(n)
		require.NoError(t, err)
		all = append(all, codes...)
	}
	data := append([]byte{0xaa, 0xbb}, Pack(all)...)

	c := Cursor{Byte: 2}
	for _, want := range names {
		var got string
		got, c = Decode(data, c)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 2, c.Byte)
	assert.Equal(t, len(all)*CodeBits, c.Bit)
	assert.Equal(t, len(data), c.ByteEnd())
}

func TestDecodeBitOffset(t *testing.T) {
	codes, err := Encode("KOEMAN")
	require.NoError(t, err)
	// shift by three leading bits of a previous code
	packed := Pack(append([]byte{0}, codes...))
	s, _ := Decode(packed, Cursor{Bit: 5})
	assert.Equal(t, "KOEMAN", s)

	s, next := DecodeString(packed, 0, 5)
	assert.Equal(t, "KOEMAN", s)
	assert.Equal(t, 5+len(codes)*CodeBits, next)
}

func TestDecodePastEndReadsZero(t *testing.T) {
	// "AB" with the terminator truncated away
	s, next := DecodeString([]byte{0x08, 0x80}, 0, 0)
	assert.Equal(t, "AB", s)
	assert.Equal(t, 15, next)

	s, next = DecodeString(nil, 10, 3)
	assert.Equal(t, "", s)
	assert.Equal(t, 8, next)
}

func TestDecodeStopsOnCode31(t *testing.T) {
	s, next := DecodeString(Pack([]byte{1, 31, 2, 0}), 0, 0)
	assert.Equal(t, "A", s)
	assert.Equal(t, 5, next)
}

func TestDecodeSafetyCap(t *testing.T) {
	codes := make([]byte, 40)
	for i := range codes {
		codes[i] = 1
	}
	s, next := DecodeString(Pack(codes), 0, 0)
	assert.Len(t, s, MaxChars+1)
	assert.Equal(t, (MaxChars+1)*CodeBits, next)
}

package block

import (
	"encoding/binary"
	"math/bits"

	"github.com/JackWithOneEye/sensiedit/internal/charset"
)

// Position is a packed text position: the byte offset from the block start
// in the upper 11 bits and a bit offset (always < 16) in the lower 5.
type Position uint16

func NewPosition(byteOffset, bitOffset int) Position {
	return Position(byteOffset<<5 | bitOffset)
}

func (p Position) Byte() int { return int(p >> 5) }
func (p Position) Bit() int  { return int(p & 0x1f) }

func (p Position) Cursor() charset.Cursor {
	return charset.Cursor{Byte: p.Byte(), Bit: p.Bit()}
}

// PackedPositions computes the 19 string positions for a freshly packed text
// segment the same way the game's string routine walks it: a 32-bit big
// endian load at a word-aligned byte cursor, a rotate left by the bit
// cursor, then one 5-bit rotate per symbol. The byte cursor moves by a word
// each time the bit cursor reaches 16, both mid-string (forcing a reload)
// and after a terminator.
//
// The rotate sequence must be kept as is; positions are only meaningful if
// they match the runtime's own cursor arithmetic.
func PackedPositions(text []byte) [StringCount]Position {
	block := make([]byte, AttrSize+len(text))
	copy(block[AttrSize:], text)

	var out [StringCount]Position
	d3, d4 := AttrSize, 0
	for i := range out {
		out[i] = NewPosition(d3, d4)
		for done := false; !done; {
			d5 := bits.RotateLeft32(load32(block, d3), d4)
			for {
				d4 += charset.CodeBits
				d5 = bits.RotateLeft32(d5, charset.CodeBits)
				if d5&0x1f == uint32(charset.Terminator) {
					if d4 >= 16 {
						d4 -= 16
						d3 += 2
					}
					done = true
					break
				}
				if d4 >= 16 {
					d4 -= 16
					d3 += 2
					break
				}
			}
		}
	}
	return out
}

// load32 reads a big endian longword, zero-filling past the end.
func load32(b []byte, off int) uint32 {
	if off+4 <= len(b) {
		return binary.BigEndian.Uint32(b[off:])
	}
	var w [4]byte
	if off < len(b) {
		copy(w[:], b[off:])
	}
	return binary.BigEndian.Uint32(w[:])
}

package charset

// Cursor is a bit position in a byte slice: Byte is a fixed baseline and Bit
// may run past 8. Decoding never mutates a Cursor; it returns the next one.
type Cursor struct {
	Byte int
	Bit  int
}

// Absolute returns the bit index from the start of the data.
func (c Cursor) Absolute() int {
	return c.Byte*8 + c.Bit
}

// Advance returns a cursor bits further along on the same baseline.
func (c Cursor) Advance(bits int) Cursor {
	return Cursor{Byte: c.Byte, Bit: c.Bit + bits}
}

// ByteEnd returns the offset of the first byte not touched by bits before c.
func (c Cursor) ByteEnd() int {
	return c.Byte + (c.Bit+7)/8
}

// Decode reads one terminated string starting at c. Bytes past the end of
// data read as zero. Decoding stops at the terminator, at code 31 (which has
// no symbol and is not consumed) or once more than MaxChars symbols have
// been read.
func Decode(data []byte, c Cursor) (string, Cursor) {
	out := make([]byte, 0, 16)
	for {
		code := codeAt(data, c.Absolute())
		if code == Terminator {
			return string(out), c.Advance(CodeBits)
		}
		sym, ok := Symbol(code)
		if !ok {
			return string(out), c
		}
		out = append(out, sym)
		c = c.Advance(CodeBits)
		if len(out) > MaxChars {
			return string(out), c
		}
	}
}

// DecodeString decodes the string at byteOffset*8+bitOffset and returns it
// with the next bit offset relative to byteOffset.
func DecodeString(data []byte, byteOffset, bitOffset int) (string, int) {
	s, next := Decode(data, Cursor{Byte: byteOffset, Bit: bitOffset})
	return s, next.Bit
}

func codeAt(data []byte, bit int) byte {
	i := bit / 8
	window := uint32(byteAt(data, i))<<16 | uint32(byteAt(data, i+1))<<8 | uint32(byteAt(data, i+2))
	return byte(window>>(24-bit%8-CodeBits)) & 0x1f
}

func byteAt(data []byte, i int) byte {
	if i < 0 || i >= len(data) {
		return 0
	}
	return data[i]
}

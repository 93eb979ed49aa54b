package rom

import (
	"encoding/binary"
	"fmt"

	"github.com/JackWithOneEye/sensiedit/internal/block"
)

// WalkRegion follows the chain of blocks from start using each block's own
// size word and returns the offset of every block. The walk must land
// exactly on end.
func WalkRegion(rom []byte, start, end int) ([]int, error) {
	if start < 0 || start > end || end > len(rom) {
		return nil, fmt.Errorf("%w: region 0x%06X-0x%06X outside %d byte rom", ErrChainMisaligned, start, end, len(rom))
	}
	var offsets []int
	pos := start
	for pos < end {
		if pos+2 > len(rom) {
			return nil, &MisalignedError{Ended: pos, Expected: end}
		}
		size := int(binary.BigEndian.Uint16(rom[pos:]))
		if size < block.MinSize || size > block.MaxSize {
			return nil, &BadBlockSizeError{Size: size, Offset: pos}
		}
		offsets = append(offsets, pos)
		pos += size
	}
	if pos != end {
		return nil, &MisalignedError{Ended: pos, Expected: end}
	}
	return offsets, nil
}

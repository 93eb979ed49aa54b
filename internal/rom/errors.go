package rom

import (
	"errors"
	"fmt"
)

// Structural errors mean the image is not a recognised cartridge.
var (
	ErrNoTeamsFound         = errors.New("no teams found in rom")
	ErrPointerTableNotFound = errors.New("could not find pointer table in rom code area")
	ErrBadBlockSize         = errors.New("bad block size")
	ErrChainMisaligned      = errors.New("chain walk misaligned")
)

var (
	ErrRegionOverflow = errors.New("region overflow")
	ErrTeamCount      = errors.New("team count mismatch")
)

type BadBlockSizeError struct {
	Size   int
	Offset int
}

func (e *BadBlockSizeError) Error() string {
	return fmt.Sprintf("Bad block size %d at 0x%06X", e.Size, e.Offset)
}

func (e *BadBlockSizeError) Unwrap() error { return ErrBadBlockSize }

type MisalignedError struct {
	Ended    int
	Expected int
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("chain walk ended at 0x%06X, expected 0x%06X", e.Ended, e.Expected)
}

func (e *MisalignedError) Unwrap() error { return ErrChainMisaligned }

// OverflowError reports by how many bytes re-encoded team data exceeds the
// space available to it.
type OverflowError struct {
	Size      int
	Available int
}

func (e *OverflowError) Overflow() int {
	return e.Size - e.Available
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("new team data (%d bytes) overflows available space (%d bytes) by %d bytes",
		e.Size, e.Available, e.Overflow())
}

func (e *OverflowError) Unwrap() error { return ErrRegionOverflow }

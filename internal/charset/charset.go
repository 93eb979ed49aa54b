// Package charset implements the 5-bit text encoding used for team, coach and
// player names. Each symbol is a 5-bit code into a fixed 31-entry alphabet;
// code 0 terminates a string. Codes are packed MSB-first with no alignment
// between strings.
package charset

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet maps codes 0-30 to symbols. Code 0 is the terminator.
const Alphabet = "\x00ABCDEFGHIJKLMNOPQRSTUVWXYZ -'."

const (
	Terminator byte = 0
	CodeBits        = 5
	// MaxChars is the decoder's safety cap. Longer strings do not round-trip.
	MaxChars = 30
)

var ErrUnsupportedCharacter = errors.New("unsupported character")

type UnsupportedCharacterError struct {
	Char rune
	Text string
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("%s %q in %q", ErrUnsupportedCharacter, e.Char, e.Text)
}

func (e *UnsupportedCharacterError) Unwrap() error {
	return ErrUnsupportedCharacter
}

var codes = func() map[rune]byte {
	m := make(map[rune]byte, len(Alphabet))
	for i, c := range Alphabet {
		if i == 0 {
			continue
		}
		m[c] = byte(i)
	}
	return m
}()

// Code returns the 5-bit code of an (already uppercased) symbol.
func Code(c rune) (byte, bool) {
	v, ok := codes[c]
	return v, ok
}

// Symbol returns the symbol for a code; ok is false for the terminator and
// for code 31, which has no mapping.
func Symbol(code byte) (byte, bool) {
	if code == Terminator || int(code) >= len(Alphabet) {
		return 0, false
	}
	return Alphabet[code], true
}

// Unsupported returns every character of text (after uppercasing) that has
// no code, in order of appearance.
func Unsupported(text string) []rune {
	var bad []rune
	for _, c := range strings.ToUpper(text) {
		if _, ok := codes[c]; !ok {
			bad = append(bad, c)
		}
	}
	return bad
}

// Encode uppercases text and returns its codes followed by the terminator.
func Encode(text string) ([]byte, error) {
	upper := strings.ToUpper(text)
	out := make([]byte, 0, len(upper)+1)
	for _, c := range upper {
		v, ok := codes[c]
		if !ok {
			return nil, &UnsupportedCharacterError{Char: c, Text: text}
		}
		out = append(out, v)
	}
	return append(out, Terminator), nil
}

// Pack concatenates 5-bit codes MSB-first, zero-padding the last byte.
func Pack(values []byte) []byte {
	out := make([]byte, 0, PackedLen(len(values)))
	var acc uint32
	n := 0
	for _, v := range values {
		acc = (acc << CodeBits) | uint32(v&0x1f)
		n += CodeBits
		for n >= 8 {
			n -= 8
			out = append(out, byte(acc>>n))
		}
		acc &= (1 << n) - 1
	}
	if n > 0 {
		out = append(out, byte(acc<<(8-n)))
	}
	return out
}

// PackedLen is the byte length of count packed codes.
func PackedLen(count int) int {
	return (count*CodeBits + 7) / 8
}

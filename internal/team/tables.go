package team

import (
	"fmt"
	"maps"
	"slices"
)

// Table is an immutable bidirectional mapping between attribute codes and
// their symbolic names.
type Table struct {
	name string
	max  int
	// width is the largest value the field's bits can hold.
	width  int
	names  map[int]string
	values map[string]int
}

func newTable(name string, maxCode, width int, names map[int]string) *Table {
	values := make(map[string]int, len(names))
	for k, v := range names {
		values[v] = k
	}
	return &Table{name: name, max: maxCode, width: width, names: names, values: values}
}

func (t *Table) Name(code int) (string, bool) {
	n, ok := t.names[code]
	return n, ok
}

func (t *Table) Value(name string) (int, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Max is the largest code the game defines for this field.
func (t *Table) Max() int {
	return t.max
}

// Names returns the symbolic names in ascending order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.values))
}

// Code wraps a raw byte value, using its symbolic name when one exists.
func (t *Table) Code(code int) Code {
	if n, ok := t.names[code]; ok {
		return Named(n)
	}
	return Raw(code)
}

// Resolve returns the raw value of c. Unknown names are errors, as are
// integers that do not fit the field. Integers above Max are written as
// given so undefined codes read from a ROM survive a rewrite.
func (t *Table) Resolve(c Code) (int, error) {
	if c.named {
		v, ok := t.values[c.name]
		if !ok {
			return 0, fmt.Errorf("unknown %s %q", t.name, c.name)
		}
		return v, nil
	}
	if c.num < 0 || c.num > t.width {
		return 0, fmt.Errorf("%s must be 0-%d, got %d", t.name, t.width, c.num)
	}
	return c.num, nil
}

// ResolveOr resolves c, substituting the named fallback when c is unset.
func (t *Table) ResolveOr(c Code, fallback string) (int, error) {
	if !c.IsSet() {
		c = Named(fallback)
	}
	return t.Resolve(c)
}

var (
	Colours = newTable("colour", 15, 0xff, map[int]string{
		0x01: "grey", 0x02: "white", 0x03: "black", 0x04: "brown", 0x05: "dark_orange", 0x06: "orange",
		0x07: "light_grey", 0x08: "dark_grey", 0x09: "dark_grey_2",
		0x0a: "red", 0x0b: "blue", 0x0c: "dark_red", 0x0d: "light_blue",
		0x0e: "green", 0x0f: "yellow",
	})

	Styles = newTable("style", 3, 0xff, map[int]string{
		0: "plain", 1: "sleeves", 2: "vertical", 3: "horizontal",
	})

	Heads = newTable("head", 2, 3, map[int]string{
		0: "white_dark", 1: "white_blonde", 2: "black_dark",
	})

	Tactics = newTable("tactic", 7, 0xff, map[int]string{
		0: "4-4-2", 1: "5-4-1", 2: "4-5-1", 3: "5-3-2", 4: "3-5-2", 5: "4-3-3", 6: "3-3-4", 7: "6-3-1",
	})

	Roles = newTable("role", 3, 3, map[int]string{
		0: "goalkeeper", 1: "defender", 2: "midfielder", 3: "forward",
	})

	Positions = newTable("position", 15, 15, map[int]string{
		0: "goalkeeper", 1: "right_back", 2: "left_back", 3: "centre_back", 4: "defender",
		5: "right_midfielder", 6: "centre_midfielder", 7: "left_midfielder", 8: "midfielder",
		9: "forward", 10: "second_forward", SubSlot: "sub",
	})
)

const (
	// SubSlot is the formation slot of every substitute.
	SubSlot = 15
	// PitchSlots is the number of on-pitch formation slots (0..10).
	PitchSlots = 11
	// Substitutes is the usual bench size.
	Substitutes = 5
)

// Defaults applied when a team JSON omits a field.
const (
	DefaultTactic   = "4-4-2"
	DefaultStyle    = "plain"
	DefaultColour   = "white"
	DefaultPosition = "goalkeeper"
	DefaultRole     = "goalkeeper"
	DefaultHead     = "white_dark"
)

// KnownCountries anchors the region locator: a candidate team record is only
// accepted when its second string is one of these.
var KnownCountries = map[string]struct{}{
	"ENGLAND": {}, "SCOTLAND": {}, "WALES": {}, "NORTHERN IRELAND": {}, "REPUBLIC OF IRELAND": {},
	"FRANCE": {}, "GERMANY": {}, "ITALY": {}, "SPAIN": {}, "HOLLAND": {}, "BELGIUM": {}, "PORTUGAL": {},
	"AUSTRIA": {}, "SWITZERLAND": {}, "SWEDEN": {}, "NORWAY": {}, "DENMARK": {}, "FINLAND": {},
	"GREECE": {}, "TURKEY": {}, "ROMANIA": {}, "BULGARIA": {}, "HUNGARY": {}, "POLAND": {},
	"CZECHOSLOVAKIA": {}, "CROATIA": {}, "SLOVENIA": {}, "RUSSIA": {}, "UKRAINE": {},
	"ALBANIA": {}, "CYPRUS": {}, "ICELAND": {}, "ISRAEL": {}, "LUXEMBOURG": {}, "MALTA": {},
	"ESTONIA": {}, "LATVIA": {}, "LITHUANIA": {}, "FAEROE ISLES": {},
}

func IsKnownCountry(s string) bool {
	_, ok := KnownCountries[s]
	return ok
}

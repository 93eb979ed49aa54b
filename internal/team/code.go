package team

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Code is an enum attribute as it appears in team JSON: either a symbolic
// name ("red", "4-4-2") or a raw integer for values with no known name.
// The zero Code is unset.
type Code struct {
	name  string
	num   int
	named bool
	set   bool
}

func Named(name string) Code {
	return Code{name: name, named: true, set: true}
}

func Raw(n int) Code {
	return Code{num: n, set: true}
}

func (c Code) IsSet() bool {
	return c.set
}

// Name reports the symbolic name, if c holds one.
func (c Code) Name() (string, bool) {
	return c.name, c.named
}

// Int reports the raw integer, if c holds one.
func (c Code) Int() (int, bool) {
	return c.num, c.set && !c.named
}

func (c Code) String() string {
	switch {
	case !c.set:
		return ""
	case c.named:
		return c.name
	default:
		return strconv.Itoa(c.num)
	}
}

func (c Code) MarshalJSON() ([]byte, error) {
	if c.named {
		return json.Marshal(c.name)
	}
	return json.Marshal(c.num)
}

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Code{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Named(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected name or integer, got %s", b)
	}
	*c = Raw(n)
	return nil
}

func (c Code) MarshalYAML() (any, error) {
	if c.named {
		return c.name, nil
	}
	return c.num, nil
}

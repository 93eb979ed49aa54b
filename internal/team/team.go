// Package team holds the editable team data model shared by the codec, the
// validator and the outer surfaces, together with the static lookup tables
// that translate attribute bytes to names.
package team

import "fmt"

// PlayerCount is the fixed squad size of every team record.
const PlayerCount = 16

// Category names one of the three team regions, in ROM order.
type Category int

const (
	National Category = iota
	Club
	Custom
)

var Categories = [...]Category{National, Club, Custom}

func (c Category) String() string {
	switch c {
	case National:
		return "national"
	case Club:
		return "club"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

type KitColours struct {
	Style  Code `json:"style" yaml:"style"`
	Shirt1 Code `json:"shirt1" yaml:"shirt1"`
	Shirt2 Code `json:"shirt2" yaml:"shirt2"`
	Shorts Code `json:"shorts" yaml:"shorts"`
	Socks  Code `json:"socks" yaml:"socks"`
}

type Kit struct {
	First  KitColours `json:"first" yaml:"first"`
	Second KitColours `json:"second" yaml:"second"`
}

type Player struct {
	Name     string `json:"name" yaml:"name"`
	Number   int    `json:"number" yaml:"number"`
	Position Code   `json:"position" yaml:"position"`
	Role     Code   `json:"role" yaml:"role"`
	Head     Code   `json:"head" yaml:"head"`
	Star     bool   `json:"star,omitempty" yaml:"star,omitempty"`
}

type Team struct {
	Team    string `json:"team" yaml:"team"`
	Country string `json:"country" yaml:"country"`
	Coach   string `json:"coach" yaml:"coach"`
	Tactic  Code   `json:"tactic" yaml:"tactic"`
	Skill   int    `json:"skill" yaml:"skill"`
	// Flag is byte 21 bit 0. The runtime never reads it; it is carried so
	// blocks round-trip unchanged.
	Flag    int      `json:"flag" yaml:"flag"`
	Kit     *Kit     `json:"kit,omitempty" yaml:"kit,omitempty"`
	Players []Player `json:"players" yaml:"players"`
}

// Strings returns the 19 text fields in on-disk order.
func (t *Team) Strings() []string {
	s := make([]string, 0, 3+len(t.Players))
	s = append(s, t.Team, t.Country, t.Coach)
	for _, p := range t.Players {
		s = append(s, p.Name)
	}
	return s
}

// Teams is the interchange document: every team of every region.
type Teams struct {
	National []Team `json:"national" yaml:"national"`
	Club     []Team `json:"club" yaml:"club"`
	Custom   []Team `json:"custom" yaml:"custom"`
}

func (t *Teams) Region(c Category) []Team {
	switch c {
	case National:
		return t.National
	case Club:
		return t.Club
	case Custom:
		return t.Custom
	}
	return nil
}

func (t *Teams) SetRegion(c Category, teams []Team) {
	switch c {
	case National:
		t.National = teams
	case Club:
		t.Club = teams
	case Custom:
		t.Custom = teams
	}
}

func (t *Teams) Count() int {
	return len(t.National) + len(t.Club) + len(t.Custom)
}

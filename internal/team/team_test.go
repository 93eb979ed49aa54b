package team

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTableLookups(t *testing.T) {
	v, ok := Tactics.Value("5-3-2")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	n, ok := Colours.Name(0x0a)
	assert.True(t, ok)
	assert.Equal(t, "red", n)

	_, ok = Colours.Name(0)
	assert.False(t, ok)

	assert.Equal(t, Named("sub"), Positions.Code(SubSlot))
	assert.Equal(t, Raw(12), Positions.Code(12))
	assert.Equal(t, []string{"black_dark", "white_blonde", "white_dark"}, Heads.Names())
}

func TestTableResolve(t *testing.T) {
	v, err := Styles.Resolve(Named("vertical"))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = Colours.Resolve(Raw(0))
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = Tactics.Resolve(Named("2-3-5"))
	assert.ErrorContains(t, err, "unknown tactic")

	_, err = Roles.Resolve(Raw(4))
	assert.ErrorContains(t, err, "role must be 0-3, got 4")

	v, err = Heads.Resolve(Raw(3))
	require.NoError(t, err, "undefined codes that fit the field pass through")
	assert.Equal(t, 3, v)

	v, err = Colours.Resolve(Raw(0x1f))
	require.NoError(t, err)
	assert.Equal(t, 0x1f, v)

	_, err = Colours.Resolve(Raw(256))
	assert.ErrorContains(t, err, "colour must be 0-255, got 256")

	_, err = Positions.Resolve(Raw(16))
	assert.ErrorContains(t, err, "position must be 0-15, got 16")

	v, err = Tactics.ResolveOr(Code{}, DefaultTactic)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestCodeJSON(t *testing.T) {
	var p Player
	require.NoError(t, json.Unmarshal([]byte(`{"name":"SHILTON","number":1,"position":"goalkeeper","role":0,"head":"white_dark"}`), &p))
	assert.Equal(t, Named("goalkeeper"), p.Position)
	assert.Equal(t, Raw(0), p.Role)
	assert.False(t, p.Star)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"SHILTON","number":1,"position":"goalkeeper","role":0,"head":"white_dark"}`, string(out))

	var c Code
	assert.Error(t, json.Unmarshal([]byte(`true`), &c))
	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.False(t, c.IsSet())
}

func TestCodeYAML(t *testing.T) {
	out, err := yaml.Marshal(KitColours{Style: Named("plain"), Shirt1: Raw(0), Shirt2: Named("red"), Shorts: Named("white"), Socks: Raw(14)})
	require.NoError(t, err)
	assert.Equal(t, "style: plain\nshirt1: 0\nshirt2: red\nshorts: white\nsocks: 14\n", string(out))
}

func TestTeamStrings(t *testing.T) {
	tm := Team{Team: "A", Country: "B", Coach: "C", Players: []Player{{Name: "D"}, {Name: "E"}}}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, tm.Strings())
}

func TestTeamsRegions(t *testing.T) {
	var ts Teams
	ts.SetRegion(Club, []Team{{Team: "MILAN"}})
	assert.Len(t, ts.Region(Club), 1)
	assert.Empty(t, ts.Region(National))
	assert.Equal(t, 1, ts.Count())
	assert.Equal(t, "custom", Custom.String())
}

// Package validate checks an edited teams document against a ROM before it
// is re-encoded. It never fails: every problem found is collected so a
// caller can present them all at once.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/JackWithOneEye/sensiedit/internal/charset"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/tidwall/gjson"
)

// Issue is one problem. Path is a gjson path into the document, empty for
// document-level problems.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Message }

type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	// Report is the outcome of the dry-run assembly, present once the
	// document passed every other check.
	Report *rom.Report `json:"-"`
}

// Valid reports whether the document can be written. Warnings do not block.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) ErrorMessages() []string {
	return messages(r.Errors)
}

func (r *Result) WarningMessages() []string {
	return messages(r.Warnings)
}

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}

func (r *Result) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validator checks documents against images located with Window.
type Validator struct {
	Window rom.ScanWindow
}

// Teams validates with the default scan window.
func Teams(img, raw []byte) Result {
	return Validator{Window: rom.DefaultWindow}.Teams(img, raw)
}

// Teams validates raw, a teams document, against img.
func (v Validator) Teams(img, raw []byte) Result {
	var r Result
	if !gjson.ValidBytes(raw) {
		r.errorf("", "teams JSON is not valid JSON")
		return r
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() || !hasCategories(doc) {
		r.errorf("", "JSON must be an object with 'national', 'club', 'custom' keys")
		return r
	}

	layout, err := v.Window.Inspect(img)
	if err != nil {
		r.errorf("", "rom structure not recognised: %v", err)
		return r
	}

	counts := layout.Counts()
	for _, c := range team.Categories {
		region := doc.Get(c.String())
		if !region.IsArray() {
			r.errorf(c.String(), "%s: expected a list of teams", c)
			continue
		}
		teams := region.Array()
		if len(teams) != counts[c] {
			r.errorf(c.String(), "%s: expected %d teams in JSON, got %d", c, counts[c], len(teams))
			continue
		}
		for i, t := range teams {
			r.checkTeam(fmt.Sprintf("%s.%d", c, i), fmt.Sprintf("%s team %d", c, i+1), t)
		}
	}

	if r.Valid() {
		r.dryRun(v.Window, img, raw)
	}
	return r
}

func hasCategories(doc gjson.Result) bool {
	for _, c := range team.Categories {
		if !doc.Get(c.String()).Exists() {
			return false
		}
	}
	return true
}

func (r *Result) checkTeam(path, where string, t gjson.Result) {
	if !t.IsObject() {
		r.errorf(path, "%s: expected an object", where)
		return
	}
	name := "?"
	if n := t.Get("team"); n.Exists() {
		name = n.String()
	}
	ctx := fmt.Sprintf("%s '%s'", where, name)

	players := t.Get("players")
	var list []gjson.Result
	if players.IsArray() {
		list = players.Array()
	}
	if len(list) != team.PlayerCount {
		r.errorf(path+".players", "%s: expected %d players, got %d", ctx, team.PlayerCount, len(list))
	}

	for _, label := range []string{"team", "country", "coach"} {
		r.checkText(path+"."+label, ctx+" "+label, t.Get(label))
	}

	r.checkEnum(path+".tactic", ctx+": tactic", t.Get("tactic"), team.Tactics)
	r.checkRange(path+".skill", ctx+": skill", t.Get("skill"), 0, 7, "must be 0-7")
	r.checkRange(path+".flag", ctx+": flag", t.Get("flag"), 0, 1, "must be 0 or 1")

	if kit := t.Get("kit"); kit.IsObject() {
		for _, half := range []string{"first", "second"} {
			k := kit.Get(half)
			kctx := fmt.Sprintf("%s %s kit", ctx, half)
			kpath := path + ".kit." + half
			r.checkEnum(kpath+".style", kctx+": style", k.Get("style"), team.Styles)
			for _, field := range []string{"shirt1", "shirt2", "shorts", "socks"} {
				r.checkEnum(kpath+"."+field, kctx+": "+field, k.Get(field), team.Colours)
			}
		}
	} else if kit.Exists() && kit.Type != gjson.Null {
		r.errorf(path+".kit", "%s: kit must be an object", ctx)
	}

	for j, p := range list {
		ppath := fmt.Sprintf("%s.players.%d", path, j)
		pctx := fmt.Sprintf("%s player %d", ctx, j+1)
		if !p.IsObject() {
			r.errorf(ppath, "%s: expected an object, got %s", pctx, p.Type)
			continue
		}
		r.checkText(ppath+".name", pctx, p.Get("name"))
		r.checkRange(ppath+".number", pctx+": number", p.Get("number"), 1, team.PlayerCount, "must be 1-16")
		r.checkEnum(ppath+".position", pctx+": position", p.Get("position"), team.Positions)
		r.checkEnum(ppath+".role", pctx+": role", p.Get("role"), team.Roles)
		r.checkEnum(ppath+".head", pctx+": head", p.Get("head"), team.Heads)
	}

	r.checkFormation(path, ctx, list)
}

func (r *Result) checkText(path, ctx string, v gjson.Result) {
	if !v.Exists() || v.Type == gjson.Null {
		return
	}
	if v.Type != gjson.String {
		r.errorf(path, "%s: expected a string, got %s", ctx, v.Raw)
		return
	}
	s := v.String()
	if bad := charset.Unsupported(s); len(bad) > 0 {
		r.errorf(path, "%s: invalid chars %s in '%s'", ctx, runeList(bad), s)
		return
	}
	if n := len([]rune(s)); n > charset.MaxChars {
		r.errorf(path, "%s: '%s' is %d characters, the limit is %d", ctx, s, n, charset.MaxChars)
	}
}

func runeList(rs []rune) string {
	q := make([]string, len(rs))
	for i, c := range rs {
		q[i] = fmt.Sprintf("'%c'", c)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

// checkEnum accepts a known name or an integer up to the table maximum.
// Missing and null values take the encoder's default.
func (r *Result) checkEnum(path, ctx string, v gjson.Result, tbl *team.Table) {
	switch v.Type {
	case gjson.Null:
		return
	case gjson.String:
		if _, ok := tbl.Value(v.Str); !ok {
			r.errorf(path, "%s must be one of [%s], got '%s'", ctx, strings.Join(tbl.Names(), ", "), v.Str)
		}
	case gjson.Number:
		n, ok := integer(v)
		if !ok || n < 0 || n > tbl.Max() {
			r.errorf(path, "%s must be 0-%d, got %s", ctx, tbl.Max(), v.Raw)
		}
	default:
		r.errorf(path, "%s must be a name or an integer, got %s", ctx, v.Raw)
	}
}

func (r *Result) checkRange(path, ctx string, v gjson.Result, lo, hi int, rule string) {
	if v.Type == gjson.Null {
		return
	}
	n, ok := integer(v)
	if !ok || n < lo || n > hi {
		r.errorf(path, "%s %s, got %s", ctx, rule, v.Raw)
	}
}

func integer(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	return int(v.Num), true
}

// checkFormation warns unless the starters cover pitch slots 0-10 exactly
// once and there are five substitutes.
func (r *Result) checkFormation(path, ctx string, players []gjson.Result) {
	var starters []int
	subs := 0
	for _, p := range players {
		if !p.IsObject() {
			continue
		}
		slot := 0
		switch pos := p.Get("position"); pos.Type {
		case gjson.String:
			v, ok := team.Positions.Value(pos.Str)
			if !ok {
				v = -1
			}
			slot = v
		case gjson.Number:
			slot = int(pos.Num)
		}
		if slot == team.SubSlot {
			subs++
			continue
		}
		starters = append(starters, slot)
	}

	sorted := slices.Sorted(slices.Values(starters))
	want := make([]int, team.PitchSlots)
	for i := range want {
		want[i] = i
	}
	if !slices.Equal(sorted, want) {
		seen := make(map[int]int, len(starters))
		for _, s := range starters {
			seen[s]++
		}
		var missing, duplicated []string
		for s := range team.PitchSlots {
			if seen[s] == 0 {
				missing = append(missing, slotName(s))
			}
		}
		for _, s := range slices.Compact(sorted) {
			if seen[s] > 1 {
				duplicated = append(duplicated, slotName(s))
			}
		}
		r.warnf(path+".players", "%s: formation slots invalid: missing [%s], duplicated [%s]",
			ctx, strings.Join(missing, ", "), strings.Join(duplicated, ", "))
	}
	if subs != team.Substitutes {
		r.warnf(path+".players", "%s: expected %d subs, got %d", ctx, team.Substitutes, subs)
	}
}

func slotName(s int) string {
	if n, ok := team.Positions.Name(s); ok {
		return n
	}
	return fmt.Sprint(s)
}

// dryRun assembles the document to catch capacity problems before a real
// write.
func (r *Result) dryRun(w rom.ScanWindow, img, raw []byte) {
	var teams team.Teams
	if err := json.Unmarshal(raw, &teams); err != nil {
		r.errorf("", "teams JSON does not match the team schema: %v", err)
		return
	}
	_, rep, err := w.Patch(img, &teams)
	var overflow *rom.OverflowError
	switch {
	case errors.As(err, &overflow):
		r.errorf("", "%v; shorten names by at least %d bytes", err, overflow.Overflow())
	case err != nil:
		r.errorf("", "%v", err)
	default:
		r.Report = rep
	}
}

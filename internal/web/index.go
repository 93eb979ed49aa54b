// Package web renders the browser front page of the editor.
package web

//go:generate templ generate

import (
	"github.com/dustin/go-humanize"
)

type Globals struct {
	MinRomBytes int64
	MaxRomBytes int64
	SessionTTL  string
}

func limits(g *Globals) string {
	return "ROM images between " + humanize.Bytes(uint64(g.MinRomBytes)) +
		" and " + humanize.Bytes(uint64(g.MaxRomBytes)) +
		". Sessions expire after " + g.SessionTTL + " of inactivity."
}

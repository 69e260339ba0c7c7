// Package icons maps application classes to Nerd Font glyphs.
package icons

import "strings"

// Entry maps a class-name fragment to a glyph.
type Entry struct {
	Match string
	Glyph string
}

// DefaultGlyph is returned when no table row matches.
const DefaultGlyph = "\U000f05b2"

// Builtin is the ordered lookup table. The first containing match wins, so
// more specific fragments ("chromium") precede broader ones ("chrome").
var Builtin = []Entry{
	{Match: "firefox", Glyph: "\uf269"},
	{Match: "Alacritty", Glyph: "\uf120"},
	{Match: "kitty", Glyph: "\uf120"},
	{Match: "discord", Glyph: "\U000f066f"},
	{Match: "Steam", Glyph: "\uf1b6"},
	{Match: "chromium", Glyph: "\uf268"},
	{Match: "chrome", Glyph: "\uf268"},
	{Match: "code", Glyph: "\U000f0a1e"},
	{Match: "spotify", Glyph: "\uf1bc"},
	{Match: "default", Glyph: DefaultGlyph},
}

// Resolver looks up glyphs in a fixed table whose last row is the fallback.
type Resolver struct {
	table []Entry
}

// NewResolver builds a resolver with extra rows taking precedence over the builtin table.
func NewResolver(extra ...Entry) *Resolver {
	table := make([]Entry, 0, len(extra)+len(Builtin))
	for _, e := range extra {
		if e.Match == "" || e.Glyph == "" {
			continue
		}
		table = append(table, Entry{Match: strings.ToLower(e.Match), Glyph: e.Glyph})
	}
	for _, e := range Builtin {
		table = append(table, Entry{Match: strings.ToLower(e.Match), Glyph: e.Glyph})
	}
	return &Resolver{table: table}
}

// Resolve returns the glyph for class. It never fails.
func (r *Resolver) Resolve(class string) string {
	lower := strings.ToLower(class)
	for _, e := range r.table {
		if strings.Contains(lower, e.Match) {
			return e.Glyph
		}
	}
	return r.table[len(r.table)-1].Glyph
}

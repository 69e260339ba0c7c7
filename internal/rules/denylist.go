package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyprpal/minhypr/internal/config"
	"github.com/hyprpal/minhypr/internal/state"
)

// clientMatcher reports whether a window matches a compiled matcher.
type clientMatcher func(class, title string) bool

// Denylist decides which windows must never be minimized.
type Denylist struct {
	entries []denyEntry
}

type denyEntry struct {
	describe string
	match    clientMatcher
}

// BuildDenylist compiles the configured matchers. Every field set on a
// matcher must match; class comparisons ignore case.
func BuildDenylist(cfgs []config.MatcherConfig) (*Denylist, error) {
	d := &Denylist{}
	for i, cfg := range cfgs {
		m, err := matcherFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("denylist[%d]: %w", i, err)
		}
		d.entries = append(d.entries, denyEntry{describe: describeMatcher(cfg), match: m})
	}
	return d, nil
}

// Blocks returns the description of the first matcher that rejects win.
func (d *Denylist) Blocks(win state.ActiveWindow) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, e := range d.entries {
		if e.match(win.Class, win.Title) {
			return e.describe, true
		}
	}
	return "", false
}

// Len returns the number of compiled matchers.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func matcherFromConfig(cfg config.MatcherConfig) (clientMatcher, error) {
	var parts []clientMatcher
	if cfg.Class != "" {
		expected := strings.ToLower(cfg.Class)
		parts = append(parts, func(class, _ string) bool { return strings.ToLower(class) == expected })
	}
	if len(cfg.AnyClass) > 0 {
		set := map[string]struct{}{}
		for _, item := range cfg.AnyClass {
			set[strings.ToLower(item)] = struct{}{}
		}
		parts = append(parts, func(class, _ string) bool {
			_, ok := set[strings.ToLower(class)]
			return ok
		})
	}
	if cfg.TitleRegex != "" {
		re, err := regexp.Compile(cfg.TitleRegex)
		if err != nil {
			return nil, fmt.Errorf("compile titleRegex: %w", err)
		}
		parts = append(parts, func(_, title string) bool { return re.MatchString(title) })
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("match requires class, anyClass, or titleRegex")
	}
	return func(class, title string) bool {
		for _, p := range parts {
			if !p(class, title) {
				return false
			}
		}
		return true
	}, nil
}

func describeMatcher(cfg config.MatcherConfig) string {
	var fields []string
	if cfg.Class != "" {
		fields = append(fields, "class="+cfg.Class)
	}
	if len(cfg.AnyClass) > 0 {
		fields = append(fields, "anyClass="+strings.Join(cfg.AnyClass, "|"))
	}
	if cfg.TitleRegex != "" {
		fields = append(fields, "titleRegex="+cfg.TitleRegex)
	}
	return strings.Join(fields, " ")
}

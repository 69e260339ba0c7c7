package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyprpal/minhypr/internal/state"
)

// Record is one minimized window.
type Record struct {
	Address         string    `json:"address"`
	DisplayLabel    string    `json:"display_label"`
	Class           string    `json:"class"`
	OriginalTitle   string    `json:"original_title"`
	PreviewPath     string    `json:"preview_path,omitempty"`
	Icon            string    `json:"icon"`
	OriginWorkspace int       `json:"origin_workspace"`
	MinimizedAt     time.Time `json:"minimized_at,omitzero"`
}

// UnmarshalJSON accepts state files written before display_label and
// origin_workspace were renamed.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var raw struct {
		plain
		LegacyDisplayTitle *string `json:"display_title"`
		LegacyWorkspace    *int    `json:"workspace"`
		PreviewPath        *string `json:"preview_path"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record(raw.plain)
	if r.DisplayLabel == "" && raw.LegacyDisplayTitle != nil {
		r.DisplayLabel = *raw.LegacyDisplayTitle
	}
	if r.OriginWorkspace == 0 && raw.LegacyWorkspace != nil {
		r.OriginWorkspace = *raw.LegacyWorkspace
	}
	if raw.PreviewPath != nil {
		r.PreviewPath = *raw.PreviewPath
	}
	return nil
}

// Label builds the menu label for a window: icon, class, title and a short
// reversed address tail that keeps identical titles apart.
func Label(icon, class, title, address string) string {
	return fmt.Sprintf("%s %s - %s [%s]", icon, class, title, shortAddress(address, 4))
}

func shortAddress(address string, n int) string {
	runes := []rune(address)
	out := make([]rune, 0, n)
	for i := len(runes) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, runes[i])
	}
	return string(out)
}

// Records is the ordered store contents, oldest first.
type Records []Record

// Find returns the record for addr. Addresses compare in normalized form,
// so "0xABC" and "abc" name the same window.
func (rs Records) Find(addr string) (Record, bool) {
	addr = state.NormalizeAddress(addr)
	for _, r := range rs {
		if state.NormalizeAddress(r.Address) == addr {
			return r, true
		}
	}
	return Record{}, false
}

// Contains reports whether addr has a record.
func (rs Records) Contains(addr string) bool {
	_, ok := rs.Find(addr)
	return ok
}

// Without returns a copy lacking every record for addr.
func (rs Records) Without(addr string) Records {
	addr = state.NormalizeAddress(addr)
	out := make(Records, 0, len(rs))
	for _, r := range rs {
		if state.NormalizeAddress(r.Address) != addr {
			out = append(out, r)
		}
	}
	return out
}

// Addresses lists record addresses in store order.
func (rs Records) Addresses() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Address)
	}
	return out
}

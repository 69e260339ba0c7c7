package wininfo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fields
	}{
		{
			name: "strict",
			raw:  `{"class":"kitty","title":"shell"}`,
			want: Fields{"class": "kitty", "title": "shell"},
		},
		{
			name: "fallback",
			raw:  `class:kitty,title:shell`,
			want: Fields{"class": "kitty", "title": "shell"},
		},
		{
			name: "fallback with braces and quotes",
			raw:  `{ "class" : "kitty", "title": "shell" }x`,
			want: Fields{"class": "kitty", "title": "shell\" }x"},
		},
		{
			name: "hyprctl activewindow",
			raw: `{
    "address": "0x55d3c1a2b3c0",
    "mapped": true,
    "at": [10, 40],
    "size": [1900, 1020],
    "workspace": {"id": 3, "name": "3"},
    "floating": false,
    "class": "org.mozilla.firefox",
    "title": "Docs: a, b",
    "grouped": [],
    "swallowing": null,
    "pid": 4242
}`,
			want: Fields{
				"address":        "0x55d3c1a2b3c0",
				"mapped":         "true",
				"at":             "10,40",
				"size":           "1900,1020",
				"workspace.id":   "3",
				"workspace.name": "3",
				"floating":       "false",
				"class":          "org.mozilla.firefox",
				"title":          "Docs: a, b",
				"grouped":        "",
				"swallowing":     "",
				"pid":            "4242",
			},
		},
		{
			name: "fallback is lossy on commas",
			raw:  `title:a, b,class:kitty`,
			want: Fields{"title": "a", "class": "kitty"},
		},
		{
			name: "garbage",
			raw:  `not even close`,
			want: Fields{},
		},
		{
			name: "empty",
			raw:  ``,
			want: Fields{},
		},
		{
			name: "json array falls back",
			raw:  `[1,2]`,
			want: Fields{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldsGetTrims(t *testing.T) {
	f := Fields{"class": "  kitty "}
	v, ok := f.Get("class")
	if !ok || v != "kitty" {
		t.Fatalf("Get returned %q, %v", v, ok)
	}
	if _, ok := f.Get("missing"); ok {
		t.Fatalf("expected missing key to report false")
	}
}

// Package wininfo turns hyprctl key/value output into flat string fields.
//
// The structured path understands real `hyprctl -j` objects; the permissive
// path accepts degraded quasi-JSON such as `class:kitty,title:shell`. That
// fallback splits on every comma and the first colon of each segment, so
// values containing either character are truncated. Callers should treat the
// result as untrusted and convert it to typed values right away.
package wininfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Fields maps a field name to its textual value. Nested objects use dotted
// keys ("workspace.id") and scalar arrays are comma-joined ("at" -> "10,20").
type Fields map[string]string

// Get returns the trimmed value for key and whether it was present.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return strings.TrimSpace(v), ok
}

// Parse never fails; an unusable blob yields an empty mapping.
func Parse(raw string) Fields {
	if fields, err := parseStrict(raw); err == nil {
		return fields
	}
	return parseLoose(raw)
}

func parseStrict(raw string) (Fields, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after object")
	}
	if obj == nil {
		return nil, errors.New("not an object")
	}
	fields := make(Fields, len(obj))
	for k, v := range obj {
		flatten(fields, k, v)
	}
	return fields, nil
}

func flatten(out Fields, key string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			flatten(out, key+"."+k, child)
		}
	case []any:
		if parts, ok := scalars(v); ok {
			out[key] = strings.Join(parts, ",")
			return
		}
		for i, child := range v {
			flatten(out, key+"."+strconv.Itoa(i), child)
		}
	default:
		out[key] = scalar(v)
	}
}

func scalars(items []any) ([]string, bool) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case map[string]any, []any:
			return nil, false
		}
		parts = append(parts, scalar(item))
	}
	return parts, true
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(t)
		return strings.TrimSpace(buf.String())
	}
}

func parseLoose(raw string) Fields {
	fields := Fields{}
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "{")
	content = strings.TrimSuffix(content, "}")
	for _, pair := range strings.Split(content, ",") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"`)
		if key == "" {
			continue
		}
		fields[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return fields
}

package models

import (
	"encoding/json"
	"strconv"
)

// Payload is a decoded JSON object as returned by the API. Accessors never
// fail, they fall back to the given default.
type Payload map[string]any

// Has reports whether the key is present and not null
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value as a string. Numbers and booleans are formatted.
func (p Payload) String(key, def string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	}
	return def
}

// Float returns the value as a float64
func (p Payload) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the value as an int, fractions are truncated
func (p Payload) Int(key string, def int) int {
	if !p.Has(key) {
		return def
	}
	f := p.Float(key, float64(def))
	return int(f)
}

// Bool returns the value as a bool
func (p Payload) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Object returns a nested object, empty when absent
func (p Payload) Object(key string) Payload {
	switch v := p[key].(type) {
	case map[string]any:
		return Payload(v)
	case Payload:
		return v
	}
	return Payload{}
}

// Objects returns a list of nested objects, skipping anything else
func (p Payload) Objects(key string) []Payload {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}

	items := make([]Payload, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			items = append(items, Payload(m))
		}
	}
	return items
}

// Strings returns a list of strings, skipping anything else
func (p Payload) Strings(key string) []string {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

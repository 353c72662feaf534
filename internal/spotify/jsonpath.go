package spotify

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The helpers in this file are the only way normalizers read the
// extracted JSON. The web player places null at nearly every optional
// nesting level (artists, album, images, lyrics have all been observed
// as null on real pages), so every lookup goes through dig, which
// returns nil instead of panicking when a step is absent, null, or not
// an object.
//
// Each getter takes an ordered alias list because the same logical
// field has appeared under different names across page generations
// (duration_ms vs duration, release_date vs releaseDate). Aliases are
// tried in order and may themselves be dotted paths.

// dig resolves a dotted path against a decoded JSON tree. It returns
// nil when any step of the path is missing, null, or not an object.
// The empty path resolves to the node itself, which is how documents
// carrying the entity at their root are addressed.
func dig(node any, path string) any {
	if path == "" {
		return node
	}
	current := node
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// lookup returns the first alias that resolves to a non-nil value.
func lookup(node any, aliases ...string) any {
	for _, alias := range aliases {
		if v := dig(node, alias); v != nil {
			return v
		}
	}
	return nil
}

// getString returns the first alias resolving to a string, or "".
// Numeric values are rendered to their decimal form since the site has
// served IDs and counts as either type.
func getString(node any, aliases ...string) string {
	switch v := lookup(node, aliases...).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// getInt returns the first alias resolving to an integer value. The
// second return reports whether any alias resolved.
func getInt(node any, aliases ...string) (int, bool) {
	n, ok := getInt64(node, aliases...)
	return int(n), ok
}

// getInt64 returns the first alias resolving to an integer value,
// accepting JSON numbers and numeric strings. The second return
// reports whether any alias resolved.
func getInt64(node any, aliases ...string) (int64, bool) {
	switch v := lookup(node, aliases...).(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// getBool returns the first alias resolving to a boolean. The second
// return reports whether any alias resolved.
func getBool(node any, aliases ...string) (bool, bool) {
	if v, ok := lookup(node, aliases...).(bool); ok {
		return v, true
	}
	return false, false
}

// getSlice returns the first alias resolving to an array, or nil.
// Callers convert nil to their typed empty slice.
func getSlice(node any, aliases ...string) []any {
	for _, alias := range aliases {
		if v, ok := dig(node, alias).([]any); ok {
			return v
		}
	}
	return nil
}

// getMap returns the first alias resolving to an object, or nil.
func getMap(node any, aliases ...string) map[string]any {
	for _, alias := range aliases {
		if v, ok := dig(node, alias).(map[string]any); ok {
			return v
		}
	}
	return nil
}

// asMap narrows a slice element to an object, or nil when the element
// is null or some other type.
func asMap(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

package usecase

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ExtractValue resolves a unified field from a raw payload.
// Order: exact key, then each alias (and the field name itself) where dotted aliases
// walk nested maps and lists, then a case-insensitive scan of top-level keys.
// JSON null counts as unresolved.
func ExtractValue(payload map[string]any, field string, aliases []string) (any, bool) {
	if payload == nil {
		return nil, false
	}

	if value, ok := payload[field]; ok && value != nil {
		return value, true
	}

	candidates := make([]string, 0, len(aliases)+1)
	candidates = append(candidates, aliases...)
	candidates = append(candidates, field)

	for _, alias := range candidates {
		var value any
		if strings.Contains(alias, ".") {
			value = walkPath(payload, alias)
		} else {
			value = payload[alias]
		}
		if value != nil {
			return value, true
		}
	}

	// Sorted so that payloads with several case variants resolve deterministically
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.EqualFold(key, field) && payload[key] != nil {
			return payload[key], true
		}
	}

	return nil, false
}

// walkPath follows a dotted path through nested maps and lists.
// Numeric segments index into lists.
func walkPath(payload map[string]any, path string) any {
	var current any = payload

	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		default:
			list, ok := asList(node)
			if !ok {
				return nil
			}
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(list) {
				return nil
			}
			current = list[index]
		}

		if current == nil {
			return nil
		}
	}

	return current
}

// asList returns the elements of any slice value
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// listLen returns the length of a slice value, or false if the value is not a slice
func listLen(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, false
	}
	return rv.Len(), true
}

// firstTruthy returns the first truthy value among the given keys
func firstTruthy(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// firstPresent returns the first non-null value among the given keys
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

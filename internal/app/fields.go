package app

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

/********** tiny helpers **********/

// lookupAny: exact key first, then a dot path through nested maps.
func lookupAny(m map[string]any, path string) any {
	if v, ok := m[path]; ok {
		return v
	}
	if !strings.Contains(path, ".") {
		return nil
	}
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstPresent returns the first non-null value among paths.
func firstPresent(m map[string]any, paths []string) (any, bool) {
	for _, p := range paths {
		if v := lookupAny(m, p); v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstNonEmptyStr: first string that is non-empty after trimming, trimmed.
func firstNonEmptyStr(m map[string]any, paths []string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

// firstArray returns the first value among paths that is an array.
func firstArray(m map[string]any, paths []string) ([]any, bool) {
	for _, p := range paths {
		if arr, ok := lookupAny(m, p).([]any); ok {
			return arr, true
		}
	}
	return nil, false
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat reads the numeric prefix of s ("450 kcal" -> 450).
// No prefix, NaN or an overflow gives 0.
func parseLeadingFloat(s string) float64 {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toFloat coerces a decoded JSON value to a finite number, 0 when it cannot.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case json.Number:
		return parseLeadingFloat(t.String())
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return parseLeadingFloat(t)
	}
	return 0
}

// firstFloat: the first present path decides, even when it does not parse.
func firstFloat(m map[string]any, paths []string) float64 {
	if v, ok := firstPresent(m, paths); ok {
		return toFloat(v)
	}
	return 0
}

// scalarString renders ids and sizes that may arrive as strings or numbers.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), t.String() != ""
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

func firstScalarString(m map[string]any, paths []string) string {
	for _, p := range paths {
		if s, ok := scalarString(lookupAny(m, p)); ok {
			return s
		}
	}
	return ""
}

// truthy matches boolean true, the string "true" and the number 1.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	case float64:
		return t == 1
	case int:
		return t == 1
	}
	return false
}

// sliceStrings: accept []any with either strings or objects carrying a name.
func sliceStrings(raw []any, nameKeys []string) []string {
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if s := firstNonEmptyStr(t, nameKeys); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// uniq keeps the first occurrence of each value.
func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// sortedKeys gives map traversal a stable order; JSON key order is lost on decode.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package sitecontent

import (
	"encoding/json"
	"strconv"
	"strings"
)

// fields is a leniently-read JSON object. Lookups of absent keys or values of
// an unexpected shape return the zero value.
type fields map[string]any

func asFields(v any) fields {
	m, _ := v.(map[string]any)
	return fields(m)
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// scalar renders strings, numbers and booleans as text. Objects, arrays and
// null read as "".
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func (f fields) str(key string) string {
	if f == nil {
		return ""
	}
	return scalar(f[key])
}

// first returns the first non-empty value among keys.
func (f fields) first(keys ...string) string {
	for _, key := range keys {
		if v := f.str(key); v != "" {
			return v
		}
	}
	return ""
}

func (f fields) obj(key string) fields {
	if f == nil {
		return nil
	}
	return asFields(f[key])
}

func (f fields) list(key string) []any {
	if f == nil {
		return nil
	}
	return asList(f[key])
}

func (f fields) has(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f[key]
	return ok
}

// pick returns v unless it is empty.
func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// splitServices turns "Weddings, Corporate , Concerts" into a trimmed list,
// dropping empty pieces. A JSON array passes through element-wise.
func splitServices(v any) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, piece := range strings.Split(t, ",") {
			if piece = strings.TrimSpace(piece); piece != "" {
				out = append(out, piece)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := scalar(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

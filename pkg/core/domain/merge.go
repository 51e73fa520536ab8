package domain

import "slices"

// MergeFields writes src over dst in place. Nested maps merge recursively;
// every other value, arrays included, replaces the stored one.
func MergeFields(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = nil
		}
		dst[k] = MergeFields(CloneFields(existing), sub)
	}
	return dst
}

// CloneFields returns a deep copy of nested maps and slices so stored
// documents never alias caller data.
func CloneFields(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneFields(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

// DropNil removes keys whose value is nil, in nested maps too. A nil value
// plays the role of an absent form field and must never overwrite stored
// data.
func DropNil(m map[string]any) map[string]any {
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			DropNil(t)
		}
	}
	return m
}

package format

// Strip recursively removes null-equivalent values from a decoded JSON
// value: nil, empty strings, empty slices, and maps/objects that become
// empty after stripping. false and 0 and other non-empty primitives are
// preserved. Strip is idempotent: Strip(Strip(x)) == Strip(x).
func Strip(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			stripped := Strip(child)
			if isEmptyValue(stripped) {
				continue
			}
			out[k] = stripped
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, child := range val {
			stripped := Strip(child)
			if isEmptyValue(stripped) {
				continue
			}
			out = append(out, stripped)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return val
	}
}

func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case map[string]interface{}:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}

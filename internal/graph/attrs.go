package graph

// Attribute coercion shared by backends that hand attribute maps back to
// the engine. Upserts accept plain Go values; numbers may come back as
// int, int64 or float64 depending on the backend.

func IntAttr(attrs map[string]any, key string) *int {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

func BoolAttr(attrs map[string]any, key string) *bool {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func StringAttr(attrs map[string]any, key string) string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// MergeAttrs applies new attributes over existing ones under the given
// policy. Used by backends without a native conditional-update primitive;
// the caller must hold whatever lock makes the swap atomic.
func MergeAttrs(existing, attrs map[string]any, merge MergePolicy) map[string]any {
	if existing == nil {
		existing = make(map[string]any, len(attrs))
	}
	for k, v := range attrs {
		if k == merge.MaxField {
			old, oldOK := numeric(existing[k])
			nu, newOK := numeric(v)
			if oldOK && newOK && nu <= old {
				continue
			}
		}
		existing[k] = v
	}
	return existing
}

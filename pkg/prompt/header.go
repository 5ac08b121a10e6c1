package prompt

// Header is an ordered mapping of frontmatter keys to scalar or list values.
// Keys are case-sensitive and unique. Recognized keys (description, tools,
// source_url) have typed accessors on Document; everything else is preserved
// verbatim but not interpreted.
type Header struct {
	keys   []string
	values map[string]any
}

func (h *Header) init() {
	if h.values == nil {
		h.values = make(map[string]any)
	}
}

// Get returns the value stored under key.
func (h *Header) Get(key string) (any, bool) {
	if h == nil || h.values == nil {
		return nil, false
	}
	v, ok := h.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended to the key order;
// existing keys keep their position.
func (h *Header) Set(key string, value any) {
	h.init()
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Delete removes key and its position in the order. No-op when absent.
func (h *Header) Delete(key string) {
	if h == nil || h.values == nil {
		return
	}
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the key order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.keys...)
}

// Len returns the number of header keys.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() Header {
	var out Header
	if h == nil {
		return out
	}
	for _, k := range h.keys {
		out.Set(k, copyValue(h.values[k]))
	}
	return out
}

// canonicalize reorders keys so description comes first and tools second,
// with the remaining keys keeping their relative order. Serialization and
// parsing both leave headers in this order, which is what makes
// parse(serialize(d)) == d hold.
func (h *Header) canonicalize() {
	if h == nil || len(h.keys) == 0 {
		return
	}
	ordered := make([]string, 0, len(h.keys))
	for _, front := range []string{KeyDescription, KeyTools} {
		if _, ok := h.values[front]; ok {
			ordered = append(ordered, front)
		}
	}
	for _, k := range h.keys {
		if k == KeyDescription || k == KeyTools {
			continue
		}
		ordered = append(ordered, k)
	}
	h.keys = ordered
}

// copyValue deep-copies the value shapes YAML decoding produces: scalars,
// []any, []string, and nested map[string]any.
func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	default:
		return t
	}
}

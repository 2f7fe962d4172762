package material

type wrapKey struct {
	m     Material
	flags PolyFlags
}

// WrapRegistry hands out PolyFlagsMaterial wrappers, one per distinct
// (material, flags) pair. It only grows; entries live as long as the
// registry. Not safe for concurrent use.
type WrapRegistry struct {
	wrapped map[wrapKey]*PolyFlagsMaterial
}

// NewWrapRegistry creates an empty registry.
func NewWrapRegistry() *WrapRegistry {
	return &WrapRegistry{wrapped: make(map[wrapKey]*PolyFlagsMaterial)}
}

// Wrap returns m with flags applied. Zero flags need no wrapper and m is
// returned as is.
func (r *WrapRegistry) Wrap(m Material, flags PolyFlags) Material {
	if flags == 0 {
		return m
	}
	key := wrapKey{m: m, flags: flags}
	if w, ok := r.wrapped[key]; ok {
		return w
	}
	name := "None"
	if m != nil {
		name = m.ObjectName()
	}
	w := &PolyFlagsMaterial{Object: Object{Name: name}, Material: m, Flags: flags}
	r.wrapped[key] = w
	return w
}

// Len returns the number of wrappers created so far.
func (r *WrapRegistry) Len() int { return len(r.wrapped) }

package gpu

// Handle is a GPU object id stamped with the context generation it was
// created in.
type Handle struct {
	ID        uint32
	Timestamp uint64
}

// Context tracks the generation of the current GL context. Handles
// stamped with an older generation refer to objects that died with a
// previous context.
type Context struct {
	generation uint64
}

// NewContext starts at generation 1 so zero-valued handles are never
// valid.
func NewContext() *Context {
	return &Context{generation: 1}
}

// Generation returns the current generation.
func (c *Context) Generation() uint64 { return c.generation }

// IsValid reports whether h was created in the current generation.
func (c *Context) IsValid(h *Handle) bool {
	return h.Timestamp == c.generation
}

// Touch reports whether h is still valid. When it is not, h is stamped with
// the current generation and the caller must (re)create the object.
func (c *Context) Touch(h *Handle) bool {
	if h.Timestamp == c.generation {
		return true
	}
	h.Timestamp = c.generation
	return false
}

// Reset invalidates every handle, e.g. after the context was recreated.
func (c *Context) Reset() {
	c.generation++
}

package viewer

// selection cycles through the material names of a library.
type selection struct {
	names []string
	index int
}

// newSelection starts at first when it names a material, else at the first
// name.
func newSelection(names []string, first string) *selection {
	s := &selection{names: names}
	for i, n := range names {
		if n == first {
			s.index = i
			break
		}
	}
	return s
}

// Current returns the selected name, "" for an empty library.
func (s *selection) Current() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[s.index]
}

// Step moves by delta with wrap-around and returns the new name.
func (s *selection) Step(delta int) string {
	n := len(s.names)
	if n == 0 {
		return ""
	}
	s.index = ((s.index+delta)%n + n) % n
	return s.names[s.index]
}

package record

// Sections holds a patch's section names and their change items. Names
// keep first-seen order and stay unique; appending to a known name grows
// its item list instead of adding a duplicate entry.
type Sections struct {
	names []string
	items map[string][]string
}

// NewSections creates an empty container.
func NewSections() *Sections {
	return &Sections{items: make(map[string][]string)}
}

// Append registers the section on first use and adds any items to it.
// Calling with no items opens an empty section.
func (s *Sections) Append(name string, items ...string) {
	if s.items == nil {
		s.items = make(map[string][]string)
	}
	if _, ok := s.items[name]; !ok {
		s.names = append(s.names, name)
		s.items[name] = nil
	}
	s.items[name] = append(s.items[name], items...)
}

// Prune drops every section that holds no items, preserving the order of
// the survivors.
func (s *Sections) Prune() {
	if s == nil {
		return
	}
	kept := s.names[:0]
	for _, name := range s.names {
		if len(s.items[name]) == 0 {
			delete(s.items, name)
			continue
		}
		kept = append(kept, name)
	}
	s.names = kept
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the section names in insertion order.
func (s *Sections) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Items returns a copy of the named section's items. The second return
// is false when the section does not exist.
func (s *Sections) Items(name string) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	items, ok := s.items[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	copy(out, items)
	return out, true
}

// Each visits every section in insertion order.
func (s *Sections) Each(fn func(name string, items []string)) {
	if s == nil {
		return
	}
	for _, name := range s.names {
		fn(name, s.items[name])
	}
}

package mono

import (
	"cmp"
	"slices"
	"strings"

	"stencil/internal/source"
)

// UseSite records one invocation of a template.
type UseSite struct {
	Span   source.Span
	Module string // name of the instantiated module
}

// InstEntry captures all instantiations of one template.
type InstEntry struct {
	Template string
	Declared source.Span
	UseSites []UseSite
}

// InstantiationMap tracks the templates of a file and where each one is
// instantiated. Declared templates with no use sites are reported as unused.
type InstantiationMap struct {
	Entries map[string]*InstEntry
}

// NewInstantiationMap creates an empty map.
func NewInstantiationMap() *InstantiationMap {
	return &InstantiationMap{Entries: make(map[string]*InstEntry)}
}

// Declare registers a template. Declaring an already known name keeps the first span.
func (m *InstantiationMap) Declare(name string, span source.Span) {
	if m == nil {
		return
	}
	if _, ok := m.Entries[name]; ok {
		return
	}
	m.Entries[name] = &InstEntry{Template: name, Declared: span}
}

// Record adds a use site for template name.
func (m *InstantiationMap) Record(name string, site UseSite) {
	if m == nil {
		return
	}
	e, ok := m.Entries[name]
	if !ok {
		e = &InstEntry{Template: name}
		m.Entries[name] = e
	}
	e.UseSites = append(e.UseSites, site)
}

// Unused returns declared templates without use sites, ordered by declaration.
func (m *InstantiationMap) Unused() []*InstEntry {
	if m == nil {
		return nil
	}
	var out []*InstEntry
	for _, e := range m.Entries {
		if len(e.UseSites) == 0 {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *InstEntry) int {
		return cmp.Compare(a.Declared.Start, b.Declared.Start)
	})
	return out
}

// Sorted returns all entries ordered by template name.
func (m *InstantiationMap) Sorted() []*InstEntry {
	if m == nil {
		return nil
	}
	out := make([]*InstEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *InstEntry) int { return strings.Compare(a.Template, b.Template) })
	return out
}

// Package selection tracks which catalog modules a user picked.
//
// A [Set] only ever holds names from its catalog. It reports through an
// optional callback when the generate action becomes available (first module
// selected) or unavailable (last module deselected).
package selection

import (
	"errors"
	"fmt"
)

// ErrUnknownModule is returned when a name is not part of the catalog.
var ErrUnknownModule = errors.New("unknown module")

// Set is a selection over a fixed, ordered catalog. It is not safe for
// concurrent use; each user or request owns its own Set.
type Set struct {
	order    []string
	known    map[string]bool
	selected map[string]bool
	onChange func(enabled bool)
}

// New creates an empty selection over names, in catalog order. onChange may
// be nil.
func New(names []string, onChange func(enabled bool)) *Set {
	known := make(map[string]bool, len(names))
	order := make([]string, 0, len(names))
	for _, n := range names {
		if !known[n] {
			known[n] = true
			order = append(order, n)
		}
	}
	return &Set{
		order:    order,
		known:    known,
		selected: make(map[string]bool),
		onChange: onChange,
	}
}

// Toggle flips the selection state of name.
func (s *Set) Toggle(name string) error {
	if !s.known[name] {
		return fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	if s.selected[name] {
		s.Deselect(name)
	} else {
		s.Select(name)
	}
	return nil
}

// Select adds names to the selection.
func (s *Set) Select(names ...string) error {
	was := s.GenerateEnabled()
	for _, n := range names {
		if !s.known[n] {
			s.notify(was)
			return fmt.Errorf("%w: %s", ErrUnknownModule, n)
		}
		s.selected[n] = true
	}
	s.notify(was)
	return nil
}

// Deselect removes names from the selection. Names not selected are ignored.
func (s *Set) Deselect(names ...string) {
	was := s.GenerateEnabled()
	for _, n := range names {
		delete(s.selected, n)
	}
	s.notify(was)
}

// Clear deselects everything.
func (s *Set) Clear() {
	was := s.GenerateEnabled()
	clear(s.selected)
	s.notify(was)
}

// Has reports whether name is selected.
func (s *Set) Has(name string) bool { return s.selected[name] }

// Known reports whether name belongs to the catalog.
func (s *Set) Known(name string) bool { return s.known[name] }

// IsEmpty reports whether nothing is selected.
func (s *Set) IsEmpty() bool { return len(s.selected) == 0 }

// Len returns the number of selected modules.
func (s *Set) Len() int { return len(s.selected) }

// GenerateEnabled reports whether a bundle can be generated.
func (s *Set) GenerateEnabled() bool { return !s.IsEmpty() }

// Names returns the selected names in catalog order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.selected))
	for _, n := range s.order {
		if s.selected[n] {
			names = append(names, n)
		}
	}
	return names
}

// Catalog returns all names in catalog order.
func (s *Set) Catalog() []string {
	return append([]string(nil), s.order...)
}

func (s *Set) notify(was bool) {
	if now := s.GenerateEnabled(); now != was && s.onChange != nil {
		s.onChange(now)
	}
}

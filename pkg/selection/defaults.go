package selection

import "github.com/matzehuels/zbuilder/pkg/catalog"

// FromCatalog creates a selection over modules with the default-included
// modules already selected.
func FromCatalog(modules []catalog.Module, onChange func(enabled bool)) *Set {
	s := New(catalog.Names(modules), onChange)
	// Names come from the same catalog, so Select cannot fail.
	_ = s.Select(catalog.Defaults(modules)...)
	return s
}

// FromNames creates a selection over modules with names selected. Unknown
// names are reported as ErrUnknownModule.
func FromNames(modules []catalog.Module, names []string) (*Set, error) {
	s := New(catalog.Names(modules), nil)
	if err := s.Select(names...); err != nil {
		return nil, err
	}
	return s, nil
}

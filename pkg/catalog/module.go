package catalog

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/zbuilder/pkg/integrations"
	"github.com/matzehuels/zbuilder/pkg/metadata"
)

// Module is one selectable unit of library source.
type Module struct {
	Name              string
	Content           string
	Description       string
	IncludedByDefault bool
	Size              int
}

// Build merges a source listing with metadata. Order follows the listing;
// a repeated name keeps its first occurrence. Modules without metadata get
// no description and are not selected by default.
func Build(files []integrations.SourceFile, meta metadata.Metadata, logger *log.Logger) []Module {
	if logger == nil {
		logger = log.Default()
	}
	seen := make(map[string]bool, len(files))
	modules := make([]Module, 0, len(files))
	for _, f := range files {
		if seen[f.Name] {
			logger.Warn("duplicate module in listing", "module", f.Name)
			continue
		}
		seen[f.Name] = true

		size := f.Size
		if size == 0 {
			size = len(f.Content)
		}
		m := Module{Name: f.Name, Content: f.Content, Size: size}
		if e, ok := meta.Lookup(f.Name); ok {
			m.Description = e.Description
			m.IncludedByDefault = e.Default
		}
		modules = append(modules, m)
	}
	return modules
}

// Names returns module names in catalog order.
func Names(modules []Module) []string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name
	}
	return names
}

// Defaults returns the names of default-included modules in catalog order.
func Defaults(modules []Module) []string {
	var names []string
	for _, m := range modules {
		if m.IncludedByDefault {
			names = append(names, m.Name)
		}
	}
	return names
}

// Find returns the module called name.
func Find(modules []Module, name string) (Module, bool) {
	for _, m := range modules {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

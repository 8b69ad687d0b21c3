package trait

import (
	"fmt"
	"sort"

	"github.com/pipewright/pipewright/internal/attr"
)

// Info is everything a constructor gets about the trait occurrence it builds.
type Info struct {
	Name        string
	VariantName string
	Raw         map[string]any
}

// Constructor builds a configured trait from its occurrence info.
type Constructor func(info Info) (Trait, error)

// Module is implemented by every built-in trait package; the application
// collects modules and registers them once at startup.
type Module interface {
	Register(r *Registry)
}

type registration struct {
	schema *attr.Schema
	ctor   Constructor
}

// Registry maps trait names to their schemas and constructors. It is
// populated once at startup and read-only afterwards; the compiler only
// performs lookups.
type Registry struct {
	entries map[string]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a trait under name. Registering the same name twice is a
// programmer error and panics.
func (r *Registry) Register(name string, schema *attr.Schema, ctor Constructor) {
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("trait %q already registered", name))
	}
	r.entries[name] = registration{schema: schema, ctor: ctor}
}

// New constructs the named trait for one occurrence.
func (r *Registry) New(info Info) (Trait, error) {
	entry, ok := r.entries[info.Name]
	if !ok {
		return nil, &UnknownTraitError{Name: info.Name}
	}
	return entry.ctor(info)
}

// SchemaFor returns the registered schema for name.
func (r *Registry) SchemaFor(name string) (*attr.Schema, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.schema, true
}

// Names returns all registered trait names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergeStrategy derives the inheritance-merge strategy for list attributes
// from the registered schemas: an attribute marked Replace applies at the
// document path "traits.<trait>.<attribute>". Everything else concatenates.
func (r *Registry) MergeStrategy() attr.ListStrategyFunc {
	replace := make(map[string]bool)
	for name, entry := range r.entries {
		for _, spec := range entry.schema.Specs() {
			if spec.Merge == attr.Replace {
				replace["traits."+name+"."+spec.Name] = true
			}
		}
	}
	return func(path string) attr.MergeStrategy {
		if replace[path] {
			return attr.Replace
		}
		return attr.Concatenate
	}
}

// Package attr implements the declarative attribute layer shared by every
// configurable entity in a pipeline definition: variants, steps, traits and
// repositories all validate a raw attribute map against a Schema, then read
// typed values out of it.
package attr

import "fmt"

// Policy states whether an attribute must, may, or should no longer be set.
type Policy int

const (
	Required Policy = iota
	Optional
	Deprecated
)

func (p Policy) String() string {
	switch p {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Deprecated:
		return "deprecated"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// MergeStrategy controls how a list-valued attribute behaves when a variant
// overrides an inherited value. Concatenate is the default; schemas opt
// individual attributes into Replace.
type MergeStrategy int

const (
	Concatenate MergeStrategy = iota
	Replace
)

// Spec describes a single attribute: its name, documentation, default value,
// requiredness policy, an advisory type tag, and its inheritance-merge
// strategy. Type tags are metadata for documentation tooling and are not
// enforced at runtime.
type Spec struct {
	Name    string
	Doc     string
	Default any
	Policy  Policy
	Type    string
	Merge   MergeStrategy
}

// Schema is an ordered collection of attribute specs.
type Schema struct {
	specs []Spec
}

// NewSchema builds a schema from the given specs. It panics if a spec
// carries a default but is marked Required, or if two specs share a name;
// both are programmer errors in a schema literal.
func NewSchema(specs ...Spec) *Schema {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.Name] {
			panic(fmt.Sprintf("attr: duplicate spec %q in schema", s.Name))
		}
		seen[s.Name] = true
		if s.Default != nil && s.Policy == Required {
			panic(fmt.Sprintf("attr: spec %q has a default but is required", s.Name))
		}
	}
	return &Schema{specs: specs}
}

// Specs returns the schema's specs in declaration order.
func (s *Schema) Specs() []Spec {
	return s.specs
}

// Lookup returns the spec with the given name.
func (s *Schema) Lookup(name string) (Spec, bool) {
	for _, sp := range s.specs {
		if sp.Name == name {
			return sp, true
		}
	}
	return Spec{}, false
}

// RequiredNames returns the names of all required attributes, in declaration order.
func (s *Schema) RequiredNames() []string {
	return s.namesWithPolicy(Required)
}

// OptionalNames returns the names of all optional attributes, in declaration order.
func (s *Schema) OptionalNames() []string {
	return s.namesWithPolicy(Optional)
}

// DeprecatedNames returns the names of all deprecated attributes, in declaration order.
func (s *Schema) DeprecatedNames() []string {
	return s.namesWithPolicy(Deprecated)
}

func (s *Schema) namesWithPolicy(p Policy) []string {
	var names []string
	for _, sp := range s.specs {
		if sp.Policy == p {
			names = append(names, sp.Name)
		}
	}
	return names
}

// Defaults returns a fresh map of every non-nil default value. Container
// defaults are deep-copied so no two objects ever alias the same backing
// map or slice.
func (s *Schema) Defaults() map[string]any {
	defaults := make(map[string]any)
	for _, sp := range s.specs {
		if sp.Default != nil {
			defaults[sp.Name] = deepCopy(sp.Default)
		}
	}
	return defaults
}

// knows reports whether name is declared by the schema under any policy.
func (s *Schema) knows(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

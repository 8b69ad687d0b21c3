package resource

import "fmt"

// Resource is anything registrable under a composite identifier.
type Resource interface {
	Identifier() Identifier
	Validate() error
}

// Triggerable is implemented by resources carrying a trigger flag. The
// registry ORs trigger flags when discarding duplicates so that no variant's
// trigger request is lost.
type Triggerable interface {
	ShouldTrigger() bool
	EnableTrigger()
}

// DuplicateError reports an insertion under an identifier that is already
// taken, with duplicate discarding disabled.
type DuplicateError struct {
	ID Identifier
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("resource %s already registered", e.ID.Name())
}

// NotFoundError reports a lookup of an unregistered identifier.
type NotFoundError struct {
	ID Identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %s not registered", e.ID.Name())
}

// Registry holds at most one resource per identifier. Insertion order is
// remembered only to keep listings deterministic.
type Registry struct {
	resources map[string]Resource
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]Resource)}
}

// Add inserts res. If the identifier is already taken and discardDuplicates
// is set, the first resource is kept and the duplicate's trigger flag (if
// any) is ORed into it; otherwise a DuplicateError is returned.
func (r *Registry) Add(res Resource, discardDuplicates bool) error {
	key := res.Identifier().Key()
	existing, ok := r.resources[key]
	if !ok {
		r.resources[key] = res
		r.order = append(r.order, key)
		return nil
	}
	if !discardDuplicates {
		return &DuplicateError{ID: res.Identifier()}
	}
	if dup, ok := res.(Triggerable); ok && dup.ShouldTrigger() {
		if kept, ok := existing.(Triggerable); ok {
			kept.EnableTrigger()
		}
	}
	return nil
}

// Get returns the resource registered under id.
func (r *Registry) Get(id Identifier) (Resource, error) {
	if res, ok := r.resources[id.Key()]; ok {
		return res, nil
	}
	return nil, &NotFoundError{ID: id}
}

// OfType returns all resources of the given type, optionally narrowed to a
// qualifier, in insertion order. An empty qualifier matches any.
func (r *Registry) OfType(typeName, qualifier string) []Resource {
	var out []Resource
	for _, key := range r.order {
		res := r.resources[key]
		id := res.Identifier()
		if id.Type != typeName {
			continue
		}
		if qualifier != "" && id.Qualifier != qualifier {
			continue
		}
		out = append(out, res)
	}
	return out
}

// All returns every registered resource in insertion order.
func (r *Registry) All() []Resource {
	out := make([]Resource, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.resources[key])
	}
	return out
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return len(r.resources)
}

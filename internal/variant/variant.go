// Package variant models one concrete job derived from a base definition
// plus a named override: its step graph, configured traits, and declared
// repositories. Ordering and cycle repair over the step graph live here.
package variant

import (
	"fmt"
	"sort"

	"github.com/pipewright/pipewright/internal/resource"
	"github.com/pipewright/pipewright/internal/step"
)

// Trait is the variant-side view of a configured trait. The trait package
// provides the full contract; the variant only needs identity and
// validation.
type Trait interface {
	Name() string
	Validate() error
}

// Variant owns the step map, trait map, and resource maps for one job. It is
// built empty by the compiler, populated, mutated in place by trait
// transformers, and must not be touched after compilation returns it.
type Variant struct {
	name         string
	steps        map[string]*step.Step
	traits       map[string]Trait
	repositories map[string]*resource.Repository
	publishRepos map[string]*resource.Repository
	mainRepoName string
}

// New returns an empty variant.
func New(name string) *Variant {
	return &Variant{
		name:         name,
		steps:        make(map[string]*step.Step),
		traits:       make(map[string]Trait),
		repositories: make(map[string]*resource.Repository),
		publishRepos: make(map[string]*resource.Repository),
	}
}

// Name returns the variant name.
func (v *Variant) Name() string { return v.name }

// AddStep inserts s. The caller is responsible for name uniqueness; the
// trait-application pipeline turns collisions into a typed error before
// calling this.
func (v *Variant) AddStep(s *step.Step) {
	v.steps[s.Name()] = s
}

// Step returns the named step, if present.
func (v *Variant) Step(name string) (*step.Step, bool) {
	s, ok := v.steps[name]
	return s, ok
}

// HasStep reports whether a step with the given name exists.
func (v *Variant) HasStep(name string) bool {
	_, ok := v.steps[name]
	return ok
}

// Steps returns all steps sorted by name.
func (v *Variant) Steps() []*step.Step {
	names := make([]string, 0, len(v.steps))
	for name := range v.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*step.Step, len(names))
	for i, name := range names {
		out[i] = v.steps[name]
	}
	return out
}

// AddTrait records a configured trait.
func (v *Variant) AddTrait(t Trait) {
	v.traits[t.Name()] = t
}

// Trait returns the named trait, if configured.
func (v *Variant) Trait(name string) (Trait, bool) {
	t, ok := v.traits[name]
	return t, ok
}

// Traits returns all configured traits sorted by name.
func (v *Variant) Traits() []Trait {
	names := make([]string, 0, len(v.traits))
	for name := range v.traits {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Trait, len(names))
	for i, name := range names {
		out[i] = v.traits[name]
	}
	return out
}

// AddRepository records a declared repository under its logical name. The
// first main repository also becomes the variant's main repository.
func (v *Variant) AddRepository(r *resource.Repository) {
	v.repositories[r.LogicalName()] = r
	if r.IsMain() && v.mainRepoName == "" {
		v.mainRepoName = r.LogicalName()
	}
}

// Repository returns the repository with the given logical name.
func (v *Variant) Repository(logicalName string) (*resource.Repository, bool) {
	r, ok := v.repositories[logicalName]
	return r, ok
}

// Repositories returns all declared repositories sorted by logical name.
func (v *Variant) Repositories() []*resource.Repository {
	return sortedRepos(v.repositories)
}

// MainRepository returns the variant's main repository, if any.
func (v *Variant) MainRepository() (*resource.Repository, bool) {
	if v.mainRepoName == "" {
		return nil, false
	}
	r, ok := v.repositories[v.mainRepoName]
	return r, ok
}

// AddPublishRepository records a publish shadow under its logical name.
func (v *Variant) AddPublishRepository(r *resource.Repository) {
	v.publishRepos[r.LogicalName()] = r
}

// PublishRepositories returns all publish shadows sorted by logical name.
func (v *Variant) PublishRepositories() []*resource.Repository {
	return sortedRepos(v.publishRepos)
}

func sortedRepos(m map[string]*resource.Repository) []*resource.Repository {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*resource.Repository, len(names))
	for i, name := range names {
		out[i] = m[name]
	}
	return out
}

// Validate checks the variant's own cross-field invariants: the main
// repository name must key into the repository map, every step dependency
// must name an existing step, and every publish target must name a declared
// repository. Schema-level checks on steps, traits and repositories are the
// validator walk's job, not this method's.
func (v *Variant) Validate() error {
	if v.mainRepoName != "" {
		if _, ok := v.repositories[v.mainRepoName]; !ok {
			return fmt.Errorf("variant %s: main repository %q is not declared", v.name, v.mainRepoName)
		}
	}
	for _, s := range v.Steps() {
		for _, dep := range s.Dependencies() {
			if !v.HasStep(dep) {
				return fmt.Errorf("variant %s: step %s depends on unknown step %q", v.name, s.Name(), dep)
			}
		}
		for _, target := range s.PublishTo() {
			if _, ok := v.repositories[target]; !ok {
				return fmt.Errorf("variant %s: step %s publishes to unknown repository %q", v.name, s.Name(), target)
			}
		}
	}
	return nil
}

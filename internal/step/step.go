// Package step defines the nodes of a variant's execution graph. A step is
// either declared by the pipeline author or injected by a trait transformer;
// the distinction matters for cycle repair, where only synthetic steps may
// lose dependency edges.
package step

import (
	"fmt"
	"sort"
	"time"

	"github.com/pipewright/pipewright/internal/attr"
)

var stepSchema = attr.NewSchema(
	attr.Spec{Name: "execute", Doc: "command to run: a script name or an argv list", Policy: attr.Optional, Type: "string|list"},
	attr.Spec{Name: "depends", Doc: "names of steps that must complete first", Policy: attr.Optional, Type: "list", Default: []any{}},
	attr.Spec{Name: "timeout", Doc: "wall-clock limit as a duration string", Policy: attr.Optional, Type: "string"},
	attr.Spec{Name: "privileged", Doc: "run with elevated container privileges", Policy: attr.Optional, Type: "bool", Default: false},
	attr.Spec{Name: "publish_to", Doc: "logical repository names this step pushes to", Policy: attr.Optional, Type: "list", Default: []any{}},
	attr.Spec{Name: "inputs", Doc: "variable name to producing step output", Policy: attr.Optional, Type: "map"},
	attr.Spec{Name: "output_dir", Doc: "deprecated; outputs are bound via traits", Policy: attr.Deprecated, Type: "string"},
)

// Step is one executable unit of a variant.
type Step struct {
	name       string
	synthetic  bool
	injectedBy string

	cfg          *attr.Object
	depends      map[string]struct{}
	traitDepends map[string]struct{}
	inputs       map[string]string // variable name -> producing step name
	outputs      map[string]string // variable name -> output name
	execute      any               // string or []any, resolved lazily
	timeout      time.Duration
	privileged   bool
	publishTo    []string
	notifyPolicy string
}

// New builds a user-declared step from its raw attribute map.
func New(name string, raw map[string]any) (*Step, error) {
	s := newStep(name, raw)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.decode(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSynthetic builds a trait-injected step. injectedBy names the trait for
// diagnostics.
func NewSynthetic(name, injectedBy string, raw map[string]any) (*Step, error) {
	s := newStep(name, raw)
	s.synthetic = true
	s.injectedBy = injectedBy
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.decode(); err != nil {
		return nil, err
	}
	return s, nil
}

func newStep(name string, raw map[string]any) *Step {
	return &Step{
		name:         name,
		cfg:          attr.NewObject(fmt.Sprintf("step %s", name), stepSchema, raw),
		depends:      make(map[string]struct{}),
		traitDepends: make(map[string]struct{}),
		inputs:       make(map[string]string),
		outputs:      make(map[string]string),
	}
}

func (s *Step) decode() error {
	for _, dep := range s.cfg.StringList("depends") {
		if dep == s.name {
			continue // self-dependencies are defined away, not errors
		}
		s.depends[dep] = struct{}{}
	}
	timeout, err := s.cfg.Duration("timeout")
	if err != nil {
		return err
	}
	s.timeout = timeout
	s.privileged = s.cfg.Bool("privileged")
	s.publishTo = s.cfg.StringList("publish_to")
	s.execute, _ = s.cfg.Get("execute")
	for variable, target := range s.cfg.Map("inputs") {
		from, ok := target.(string)
		if !ok {
			return fmt.Errorf("step %s: input %q: expected a step name, got %T", s.name, variable, target)
		}
		if err := s.AddInput(variable, from); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the step name, unique within its variant.
func (s *Step) Name() string { return s.name }

// Synthetic reports whether a trait transformer injected this step.
func (s *Step) Synthetic() bool { return s.synthetic }

// InjectedBy returns the name of the injecting trait, or "" for user steps.
func (s *Step) InjectedBy() string { return s.injectedBy }

// Timeout returns the step's wall-clock limit, zero when unset.
func (s *Step) Timeout() time.Duration { return s.timeout }

// Privileged reports whether the step requested elevated privileges.
func (s *Step) Privileged() bool { return s.privileged }

// PublishTo returns the logical repository names the step pushes to.
func (s *Step) PublishTo() []string { return s.publishTo }

// NotifyPolicy returns the notification policy stamped by the notifications
// trait, or "" when none applies.
func (s *Step) NotifyPolicy() string { return s.notifyPolicy }

// SetNotifyPolicy stamps the notification policy.
func (s *Step) SetNotifyPolicy(policy string) { s.notifyPolicy = policy }

// Dependencies returns the names of the steps this step depends on, sorted.
func (s *Step) Dependencies() []string {
	out := make([]string, 0, len(s.depends))
	for dep := range s.depends {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// DependsOn reports whether an edge to name exists.
func (s *Step) DependsOn(name string) bool {
	_, ok := s.depends[name]
	return ok
}

// AddDependency inserts an edge to other. Adding a step as its own
// dependency is a no-op.
func (s *Step) AddDependency(other *Step) {
	s.AddDependencyName(other.Name())
}

// AddDependencyName is AddDependency for callers that only hold a name.
func (s *Step) AddDependencyName(name string) {
	if name == s.name {
		return
	}
	s.depends[name] = struct{}{}
}

// RemoveDependency removes the edge to other. Removing an edge that does not
// exist is an error, unlike adding one that already does.
func (s *Step) RemoveDependency(other *Step) error {
	return s.RemoveDependencyName(other.Name())
}

// RemoveDependencyName is RemoveDependency for callers that only hold a name.
func (s *Step) RemoveDependencyName(name string) error {
	if _, ok := s.depends[name]; !ok {
		return &NoSuchDependencyError{Step: s.name, Dependency: name}
	}
	delete(s.depends, name)
	return nil
}

// TraitDependencies returns the names of traits this step was declared to
// require, sorted.
func (s *Step) TraitDependencies() []string {
	out := make([]string, 0, len(s.traitDepends))
	for name := range s.traitDepends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AddTraitDependency records that this step requires the named trait.
func (s *Step) AddTraitDependency(name string) {
	s.traitDepends[name] = struct{}{}
}

// Inputs returns the input bindings: variable name to producing step name.
func (s *Step) Inputs() map[string]string {
	out := make(map[string]string, len(s.inputs))
	for k, v := range s.inputs {
		out[k] = v
	}
	return out
}

// Outputs returns the output bindings: variable name to output name.
func (s *Step) Outputs() map[string]string {
	out := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// AddInput binds variable to the output of the named producing step. A
// variable may be bound at most once.
func (s *Step) AddInput(variable, from string) error {
	if _, ok := s.inputs[variable]; ok {
		return &DuplicateBindingError{Step: s.name, Variable: variable, Kind: "input"}
	}
	s.inputs[variable] = from
	return nil
}

// RemoveInput drops the binding for variable, if present. Used by the meta
// transformer to undo wiring toward the version step.
func (s *Step) RemoveInput(variable string) {
	delete(s.inputs, variable)
}

// InputFrom returns the name of the variable bound to the given producing
// step, or "".
func (s *Step) InputFrom(from string) string {
	for variable, producer := range s.inputs {
		if producer == from {
			return variable
		}
	}
	return ""
}

// AddOutput declares an output under variable. A variable may be declared at
// most once.
func (s *Step) AddOutput(variable, name string) error {
	if _, ok := s.outputs[variable]; ok {
		return &DuplicateBindingError{Step: s.name, Variable: variable, Kind: "output"}
	}
	s.outputs[variable] = name
	return nil
}

// Validate re-checks the backing attribute map. Trait transformers may have
// grown it since construction.
func (s *Step) Validate() error {
	return s.cfg.Validate()
}

// Package scheduling provides the scheduling trait: it can serialize
// otherwise independent user steps when a job must not run its steps in
// parallel.
package scheduling

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "scheduling"

var schema = attr.NewSchema(
	attr.Spec{Name: "suppress_parallel_execution", Doc: "chain user steps into a single linear order", Policy: attr.Optional, Type: "bool", Default: false},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	SuppressParallelExecution bool `mapstructure:"suppress_parallel_execution"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the scheduling trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured scheduling trait on one variant.
type Trait struct {
	trait.Base
	Config Config
}

// Transformer implements trait.Trait.
func (t *Trait) Transformer() trait.Transformer {
	return &transformer{cfg: t.Config}
}

type transformer struct {
	trait.NopTransformer
	cfg Config
}

func (tr *transformer) Name() string { return TraitName }

// Process chains user-declared steps in name order when parallel execution
// is suppressed. Synthetic steps keep their own ordering; chaining them
// would fight the traits that injected them.
func (tr *transformer) Process(v *variant.Variant) error {
	if !tr.cfg.SuppressParallelExecution {
		return nil
	}
	var prev *step.Step
	for _, s := range v.Steps() {
		if s.Synthetic() {
			continue
		}
		if prev != nil {
			s.AddDependency(prev)
		}
		prev = s
	}
	return nil
}

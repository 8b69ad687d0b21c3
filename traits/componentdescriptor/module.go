// Package componentdescriptor provides the component_descriptor trait: it
// injects a step that assembles the component descriptor after every
// publishing step has run.
package componentdescriptor

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "component_descriptor"

// StepName is the name of the injected descriptor step.
const StepName = "component_descriptor"

// DescriptorVariable is the output variable of the descriptor step.
const DescriptorVariable = "COMPONENT_DESCRIPTOR_DIR"

var schema = attr.NewSchema(
	attr.Spec{Name: "component_name", Doc: "descriptor component name; defaults to the main repository path", Policy: attr.Optional, Type: "string"},
	attr.Spec{Name: "resolve_dependencies", Doc: "resolve referenced component versions while assembling", Policy: attr.Optional, Type: "bool", Default: true},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	ComponentName       string `mapstructure:"component_name"`
	ResolveDependencies bool   `mapstructure:"resolve_dependencies"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the component_descriptor trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured component_descriptor trait on one variant.
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

// OrderDependencies places the descriptor after versioning when both are
// declared. Version is not required, so this is an ordering hint, not a
// hard dependency.
func (tr *transformer) OrderDependencies() []string {
	return []string{"version"}
}

func (tr *transformer) InjectSteps() ([]*step.Step, error) {
	s, err := step.NewSynthetic(StepName, TraitName, map[string]any{
		"execute": "component_descriptor",
	})
	if err != nil {
		return nil, err
	}
	if err := s.AddOutput(DescriptorVariable, "component_descriptor_dir"); err != nil {
		return nil, err
	}
	return []*step.Step{s}, nil
}

// Process makes the descriptor step run after every user-declared step that
// publishes to a repository: the descriptor must record what was actually
// pushed.
func (tr *transformer) Process(v *variant.Variant) error {
	descriptor, ok := v.Step(StepName)
	if !ok {
		return nil
	}
	for _, s := range v.Steps() {
		if s.Synthetic() || len(s.PublishTo()) == 0 {
			continue
		}
		descriptor.AddDependency(s)
	}
	return nil
}

// Package version provides the version trait: it injects the version step
// and hands every other step the effective version as an input.
package version

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "version"

// VersionVariable is the input variable every step receives from the
// version step.
const VersionVariable = "EFFECTIVE_VERSION"

var schema = attr.NewSchema(
	attr.Spec{Name: "versionfile", Doc: "path of the version file in the main repository", Policy: attr.Optional, Type: "string", Default: "VERSION"},
	attr.Spec{Name: "preprocess", Doc: "derivation applied to the repository version", Policy: attr.Optional, Type: "string", Default: "inject-commit-hash"},
	attr.Spec{Name: "inject_effective_version", Doc: "write the effective version back into the version file", Policy: attr.Optional, Type: "bool", Default: false},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	VersionFile            string `mapstructure:"versionfile"`
	Preprocess             string `mapstructure:"preprocess"`
	InjectEffectiveVersion bool   `mapstructure:"inject_effective_version"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the version trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured version trait on one variant.
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

func (tr *transformer) InjectSteps() ([]*step.Step, error) {
	s, err := step.NewSynthetic(trait.VersionStepName, TraitName, map[string]any{
		"execute": "version",
	})
	if err != nil {
		return nil, err
	}
	if err := s.AddOutput(VersionVariable, "version_path"); err != nil {
		return nil, err
	}
	return []*step.Step{s}, nil
}

// Process gives every other step a dependency on the version step and the
// effective version as an input. The meta step picks this wiring up too and
// undoes it itself; version must not special-case it here.
func (tr *transformer) Process(v *variant.Variant) error {
	versionStep, ok := v.Step(trait.VersionStepName)
	if !ok {
		return nil
	}
	for _, s := range v.Steps() {
		if s.Name() == versionStep.Name() {
			continue
		}
		s.AddDependency(versionStep)
		if err := s.AddInput(VersionVariable, versionStep.Name()); err != nil {
			return err
		}
	}
	return nil
}

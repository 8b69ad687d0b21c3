// Package release provides the release trait: it injects the final release
// step and keeps the release from retriggering its own variant.
package release

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "release"

// StepName is the name of the injected release step.
const StepName = "release"

// git_tags replaces on override: a variant pinning its own tag template must
// not inherit the base definition's tags alongside it.
var schema = attr.NewSchema(
	attr.Spec{Name: "nextversion", Doc: "version bump applied after a release", Policy: attr.Optional, Type: "string", Default: "bump_minor"},
	attr.Spec{Name: "release_callback", Doc: "hook script run after the release commit", Policy: attr.Optional, Type: "string"},
	attr.Spec{Name: "git_tags", Doc: "tag templates placed on the release commit", Policy: attr.Optional, Type: "list", Merge: attr.Replace, Default: []any{"{version}"}},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	NextVersion     string   `mapstructure:"nextversion"`
	ReleaseCallback string   `mapstructure:"release_callback"`
	GitTags         []string `mapstructure:"git_tags"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the release trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured release trait on one variant.
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

// Dependencies: releasing without a versioned build is meaningless, so the
// version trait is required, not merely ordered.
func (tr *transformer) Dependencies() []string {
	return []string{"version"}
}

func (tr *transformer) OrderDependencies() []string {
	return []string{"component_descriptor"}
}

func (tr *transformer) InjectSteps() ([]*step.Step, error) {
	s, err := step.NewSynthetic(StepName, TraitName, map[string]any{
		"execute": "release",
	})
	if err != nil {
		return nil, err
	}
	return []*step.Step{s}, nil
}

// Process makes the release step the last user-visible step and turns off
// triggering on the main repository: the release commit itself must not
// start another run.
func (tr *transformer) Process(v *variant.Variant) error {
	release, ok := v.Step(StepName)
	if !ok {
		return nil
	}
	for _, s := range v.Steps() {
		if s.Name() == release.Name() {
			continue
		}
		release.AddDependency(s)
	}
	if main, ok := v.MainRepository(); ok {
		main.DisableTrigger()
	}
	return nil
}

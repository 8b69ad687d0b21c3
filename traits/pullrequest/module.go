// Package pullrequest provides the pull_request trait: a variant built from
// pull requests is driven by PR events, never by branch-head updates.
package pullrequest

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "pull_request"

var schema = attr.NewSchema(
	attr.Spec{Name: "policies", Doc: "merge policies keyed by team", Policy: attr.Optional, Type: "map"},
	attr.Spec{Name: "disable_status_report", Doc: "suppress commit status updates on the PR head", Policy: attr.Optional, Type: "bool", Default: false},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	Policies            map[string]any `mapstructure:"policies"`
	DisableStatusReport bool           `mapstructure:"disable_status_report"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the pull_request trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured pull_request trait on one variant.
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

func (tr *transformer) Process(v *variant.Variant) error {
	if main, ok := v.MainRepository(); ok {
		main.DisableTrigger()
	}
	return nil
}

// Package notifications provides the notifications trait: it stamps a
// notification policy onto every step without touching the graph.
package notifications

import (
	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// TraitName is the name variants declare this trait under.
const TraitName = "notifications"

var schema = attr.NewSchema(
	attr.Spec{Name: "on_error", Doc: "policy applied when a step fails", Policy: attr.Optional, Type: "string", Default: "default"},
	attr.Spec{Name: "recipients", Doc: "additional notification recipients", Policy: attr.Optional, Type: "list", Default: []any{}},
	attr.Spec{Name: "email_cfg", Doc: "deprecated credential selector for the mail relay", Policy: attr.Deprecated, Type: "string"},
)

// Config is the typed view of the trait's attributes.
type Config struct {
	OnError    string   `mapstructure:"on_error"`
	Recipients []string `mapstructure:"recipients"`
}

// Module implements trait.Module for this package.
type Module struct{}

// Register registers the notifications trait.
func (m *Module) Register(r *trait.Registry) {
	r.Register(TraitName, schema, func(info trait.Info) (trait.Trait, error) {
		t := &Trait{Base: trait.NewBase(info.Name, info.VariantName, schema, info.Raw)}
		if err := t.Decode(&t.Config); err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Trait is the configured notifications trait on one variant.
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
	for _, s := range v.Steps() {
		s.SetNotifyPolicy(tr.cfg.OnError)
	}
	return nil
}

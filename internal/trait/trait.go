// Package trait implements the extension mechanism of a pipeline
// definition. A trait is a named, schema-validated configuration object on a
// variant; its transformer injects synthetic steps and rewires the variant's
// step graph during a single compilation pass.
package trait

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/variant"
)

// Trait is a configured extension on one variant.
type Trait interface {
	Name() string
	VariantName() string
	Validate() error
	Transformer() Transformer
}

// Transformer is the executable behavior bound to a trait.
//
// Dependencies are hard: every named trait must be declared on the variant.
// OrderDependencies are soft: they only order transformers that are actually
// present. InjectSteps builds new synthetic steps on every call; Process is
// the mutation phase and runs after all transformers have injected, so it
// may rely on steps injected by transformers ordered later.
type Transformer interface {
	Name() string
	Dependencies() []string
	OrderDependencies() []string
	InjectSteps() ([]*step.Step, error)
	Process(v *variant.Variant) error
}

// Base carries the common state of a trait implementation: identity plus the
// schema-validated attribute object. Concrete traits embed it.
type Base struct {
	name        string
	variantName string
	Cfg         *attr.Object
}

// NewBase builds the shared part of a trait from its raw attribute map.
func NewBase(name, variantName string, schema *attr.Schema, raw map[string]any) Base {
	subject := fmt.Sprintf("trait %s on variant %s", name, variantName)
	return Base{
		name:        name,
		variantName: variantName,
		Cfg:         attr.NewObject(subject, schema, raw),
	}
}

// Name returns the trait name.
func (b *Base) Name() string { return b.name }

// VariantName returns the name of the variant the trait is configured on.
func (b *Base) VariantName() string { return b.variantName }

// Validate checks the trait's attributes against its schema.
func (b *Base) Validate() error { return b.Cfg.Validate() }

// Decode unpacks the validated attribute map into a typed config struct via
// mapstructure tags.
func (b *Base) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("trait %s: %w", b.name, err)
	}
	if err := dec.Decode(b.Cfg.Raw()); err != nil {
		return fmt.Errorf("trait %s: %w", b.name, err)
	}
	return nil
}

// NopTransformer provides no-op defaults for the optional parts of the
// Transformer contract. Transformers embed it and override what they need.
type NopTransformer struct{}

func (NopTransformer) Dependencies() []string             { return nil }
func (NopTransformer) OrderDependencies() []string        { return nil }
func (NopTransformer) InjectSteps() ([]*step.Step, error) { return nil, nil }
func (NopTransformer) Process(*variant.Variant) error     { return nil }

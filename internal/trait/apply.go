package trait

import (
	"context"
	"fmt"

	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/variant"
)

// Apply runs the trait-application pipeline over a variant: the implicit
// meta transformer is appended after the ordered user transformers, then all
// transformers inject their steps, then all transformers mutate the variant
// in the same order.
//
// The two phases are deliberate. A transformer's mutation logic frequently
// wires edges to steps injected by transformers that run after it; creating
// every node before wiring any edge removes that order sensitivity, while
// mutation stays ordered so a transformer can rely on the structural changes
// of its declared dependencies.
func Apply(ctx context.Context, v *variant.Variant, ordered []Transformer) error {
	logger := ctxlog.FromContext(ctx)

	all := make([]Transformer, 0, len(ordered)+1)
	all = append(all, ordered...)
	all = append(all, newMetaTransformer())

	for _, t := range all {
		steps, err := t.InjectSteps()
		if err != nil {
			return fmt.Errorf("trait %s: injecting steps: %w", t.Name(), err)
		}
		for _, s := range steps {
			if v.HasStep(s.Name()) {
				return &DuplicateStepError{Step: s.Name(), Trait: t.Name()}
			}
			v.AddStep(s)
			logger.Debug("trait injected step", "variant", v.Name(), "trait", t.Name(), "step", s.Name())
		}
	}

	for _, t := range all {
		if err := t.Process(v); err != nil {
			return fmt.Errorf("trait %s: %w", t.Name(), err)
		}
	}
	return nil
}

package trait

import (
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/variant"
)

// MetaStepName names the step the compiler-internal meta transformer
// injects into every variant.
const MetaStepName = "meta"

// MetaDirVariable is the input variable under which every step receives the
// meta step's output.
const MetaDirVariable = "METADATA_DIR"

// VersionStepName is the step name the version trait injects. The meta
// transformer special-cases it to avoid a meta<->version two-cycle.
const VersionStepName = "version"

// metaTransformer is appended by Apply after every declared transformer. It
// is a compiler-internal constant: never registered, never user-configurable.
type metaTransformer struct {
	NopTransformer
}

func newMetaTransformer() *metaTransformer {
	return &metaTransformer{}
}

func (m *metaTransformer) Name() string { return MetaStepName }

func (m *metaTransformer) InjectSteps() ([]*step.Step, error) {
	s, err := step.NewSynthetic(MetaStepName, MetaStepName, nil)
	if err != nil {
		return nil, err
	}
	if err := s.AddOutput(MetaDirVariable, "meta_dir"); err != nil {
		return nil, err
	}
	return []*step.Step{s}, nil
}

// Process makes every other step depend on and read from the meta step.
// The version trait ran earlier and wired the meta step toward the version
// step like any other step; that wiring is undone here, since version must
// only follow meta, never the reverse.
func (m *metaTransformer) Process(v *variant.Variant) error {
	meta, ok := v.Step(MetaStepName)
	if !ok {
		return nil
	}
	for _, s := range v.Steps() {
		if s.Name() == MetaStepName {
			continue
		}
		s.AddDependency(meta)
		if err := s.AddInput(MetaDirVariable, MetaStepName); err != nil {
			return err
		}
	}
	if v.HasStep(VersionStepName) {
		if meta.DependsOn(VersionStepName) {
			if err := meta.RemoveDependencyName(VersionStepName); err != nil {
				return err
			}
		}
		if variable := meta.InputFrom(VersionStepName); variable != "" {
			meta.RemoveInput(variable)
		}
	}
	return nil
}

// Package compiler turns a declarative pipeline definition (a base
// attribute map plus named variant overrides) into validated, fully wired
// variants ready for topological hand-off.
package compiler

import (
	"context"
	"fmt"
	"sort"

	"github.com/pipewright/pipewright/internal/attr"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/resource"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

// Definition is the persisted form of a pipeline definition: one inherited
// base and any number of named variants overriding it.
type Definition struct {
	Base     map[string]any
	Variants map[string]map[string]any
}

// Result holds everything one compilation produced. The resource registry
// is shared across all variants of the definition; trigger flags of
// duplicate repository declarations are OR-merged into it.
type Result struct {
	Variants  map[string]*variant.Variant
	Resources *resource.Registry
}

var variantSchema = attr.NewSchema(
	attr.Spec{Name: "steps", Doc: "user-declared build steps by name", Policy: attr.Optional, Type: "map"},
	attr.Spec{Name: "traits", Doc: "traits configured on the variant by name", Policy: attr.Optional, Type: "map"},
	attr.Spec{Name: "repo", Doc: "the main source repository", Policy: attr.Optional, Type: "map"},
	attr.Spec{Name: "repos", Doc: "additional source repositories", Policy: attr.Optional, Type: "list"},
)

// Compiler compiles definitions against a fixed trait registry. It is
// stateless across Compile calls; a single call must not be entered
// concurrently because all variants of a definition share one resource
// registry.
type Compiler struct {
	traits *trait.Registry
}

// New returns a compiler using the given trait registry.
func New(traits *trait.Registry) *Compiler {
	return &Compiler{traits: traits}
}

// Compile merges inheritance, builds each variant's steps, traits and
// repositories, runs the trait-application pipeline, collects resources,
// and validates the result. Any failure aborts the whole compilation; no
// partial definition is ever returned.
func (c *Compiler) Compile(ctx context.Context, def *Definition) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	strategy := c.traits.MergeStrategy()

	result := &Result{
		Variants:  make(map[string]*variant.Variant, len(def.Variants)),
		Resources: resource.NewRegistry(),
	}

	names := make([]string, 0, len(def.Variants))
	for name := range def.Variants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		merged := attr.Merge(def.Base, def.Variants[name], strategy)
		v, traits, err := c.buildVariant(name, merged)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}

		transformers := make(map[string]trait.Transformer, len(traits))
		for _, t := range traits {
			tr := t.Transformer()
			transformers[tr.Name()] = tr
		}
		ordered, err := trait.Order(transformers)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		if err := trait.Apply(ctx, v, ordered); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}

		if err := c.collectResources(v, result.Resources); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		if err := Walk(v); err != nil {
			return nil, err
		}

		result.Variants[name] = v
		logger.Debug("variant compiled", "variant", name, "steps", len(v.Steps()), "traits", len(traits))
	}
	return result, nil
}

func (c *Compiler) buildVariant(name string, raw map[string]any) (*variant.Variant, []trait.Trait, error) {
	cfg := attr.NewObject(fmt.Sprintf("variant %s", name), variantSchema, raw)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	v := variant.New(name)

	for stepName, stepRaw := range cfg.Map("steps") {
		s, err := step.New(stepName, subMap(stepRaw))
		if err != nil {
			return nil, nil, err
		}
		v.AddStep(s)
	}

	if repoRaw := cfg.Map("repo"); repoRaw != nil {
		r, err := resource.NewRepository(repoRaw, true)
		if err != nil {
			return nil, nil, err
		}
		v.AddRepository(r)
	}
	if reposRaw, ok := cfg.Get("repos"); ok {
		list, ok := reposRaw.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("attribute \"repos\": expected a list, got %T", reposRaw)
		}
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("attribute \"repos\": expected repository maps, got %T", item)
			}
			r, err := resource.NewRepository(m, false)
			if err != nil {
				return nil, nil, err
			}
			v.AddRepository(r)
		}
	}

	traitsRaw := cfg.Map("traits")
	traitNames := make([]string, 0, len(traitsRaw))
	for traitName := range traitsRaw {
		traitNames = append(traitNames, traitName)
	}
	sort.Strings(traitNames)

	traits := make([]trait.Trait, 0, len(traitNames))
	for _, traitName := range traitNames {
		t, err := c.traits.New(trait.Info{
			Name:        traitName,
			VariantName: name,
			Raw:         subMap(traitsRaw[traitName]),
		})
		if err != nil {
			return nil, nil, err
		}
		v.AddTrait(t)
		traits = append(traits, t)
	}
	return v, traits, nil
}

// collectResources registers every declared repository in the shared
// registry and synthesizes a publish shadow for every repository some step
// publishes to. Duplicates across variants are discarded with their trigger
// flags OR-merged.
func (c *Compiler) collectResources(v *variant.Variant, reg *resource.Registry) error {
	for _, r := range v.Repositories() {
		if err := reg.Add(r.Clone(), true); err != nil {
			return err
		}
	}
	for _, s := range v.Steps() {
		for _, target := range s.PublishTo() {
			r, ok := v.Repository(target)
			if !ok {
				continue // surfaced by the validation walk
			}
			shadow := r.PublishShadow()
			v.AddPublishRepository(shadow)
			if err := reg.Add(shadow.Clone(), true); err != nil {
				return err
			}
		}
	}
	return nil
}

// subMap normalizes a nested attribute value that may be nil (an empty
// declaration such as a trait with no configuration) into a map.
func subMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

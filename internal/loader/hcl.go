package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/pipewright/pipewright/internal/compiler"
	"github.com/pipewright/pipewright/internal/ctxlog"
)

// HCLLoader reads a definition document of the shape
//
//	base {
//	  <attributes and blocks>
//	}
//	variant "<name>" {
//	  <attributes and blocks>
//	}
//
// The body of a block lowers to the same raw attribute map the YAML
// front-end produces: attributes become values, an unlabeled nested
// block becomes a nested map under its type name, and a labeled nested
// block nests one level deeper under its label.
type HCLLoader struct{}

// NewHCLLoader creates a new HCL definition loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// Load parses the file at path and returns its raw document.
func (l *HCLLoader) Load(ctx context.Context, path string) (*compiler.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing definition %s: %w", path, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parsing definition %s: unexpected body type %T", path, file.Body)
	}

	def := &compiler.Definition{
		Base:     map[string]any{},
		Variants: map[string]map[string]any{},
	}

	if len(body.Attributes) > 0 {
		return nil, fmt.Errorf("definition %s: top-level attributes are not allowed, use base and variant blocks", path)
	}

	for _, block := range body.Blocks {
		switch block.Type {
		case "base":
			if len(block.Labels) != 0 {
				return nil, fmt.Errorf("definition %s: base block takes no label", path)
			}
			raw, err := lowerBody(block.Body)
			if err != nil {
				return nil, fmt.Errorf("definition %s: base: %w", path, err)
			}
			def.Base = mergeRaw(def.Base, raw)
		case "variant":
			if len(block.Labels) != 1 {
				return nil, fmt.Errorf("definition %s: variant block needs exactly one label", path)
			}
			name := block.Labels[0]
			raw, err := lowerBody(block.Body)
			if err != nil {
				return nil, fmt.Errorf("definition %s: variant %s: %w", path, name, err)
			}
			if existing, dup := def.Variants[name]; dup {
				def.Variants[name] = mergeRaw(existing, raw)
			} else {
				def.Variants[name] = raw
			}
		default:
			return nil, fmt.Errorf("definition %s: unknown top-level block %q", path, block.Type)
		}
	}

	logger.Debug("Loaded HCL definition.", "path", path, "variants", len(def.Variants))
	return def, nil
}

// lowerBody flattens an HCL body into a raw attribute map. Attributes are
// evaluated without a scope so only literal expressions are valid; the
// definition language has no variables or functions.
func lowerBody(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, a := range body.Attributes {
		v, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %s: %w", name, diags)
		}
		native, err := ctyToNative(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		out[name] = native
	}

	for _, block := range body.Blocks {
		raw, err := lowerBody(block.Body)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", block.Type, err)
		}

		switch len(block.Labels) {
		case 0:
			if existing, ok := out[block.Type]; ok {
				m, isMap := existing.(map[string]any)
				if !isMap {
					return nil, fmt.Errorf("block %s collides with an attribute of the same name", block.Type)
				}
				out[block.Type] = mergeRaw(m, raw)
			} else {
				out[block.Type] = raw
			}
		case 1:
			group, _ := out[block.Type].(map[string]any)
			if group == nil {
				if _, taken := out[block.Type]; taken {
					return nil, fmt.Errorf("block %s collides with an attribute of the same name", block.Type)
				}
				group = map[string]any{}
				out[block.Type] = group
			}
			label := block.Labels[0]
			if existing, ok := group[label].(map[string]any); ok {
				group[label] = mergeRaw(existing, raw)
			} else {
				group[label] = raw
			}
		default:
			return nil, fmt.Errorf("block %s: at most one label is supported", block.Type)
		}
	}

	return out, nil
}

// mergeRaw overlays b onto a, descending into maps. Used only to join
// repeated blocks of the same name; the inheritance merge with its list
// strategies lives in the compiler, not here.
func mergeRaw(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if bm, ok := v.(map[string]any); ok {
			if am, ok := out[k].(map[string]any); ok {
				out[k] = mergeRaw(am, bm)
				continue
			}
		}
		out[k] = v
	}
	return out
}

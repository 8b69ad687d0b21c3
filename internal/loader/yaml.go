package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipewright/pipewright/internal/compiler"
	"github.com/pipewright/pipewright/internal/ctxlog"
)

// YAMLLoader reads a definition document of the shape
//
//	base:
//	  <attributes>
//	variants:
//	  <name>:
//	    <attributes>
//
// Both top-level keys are optional; a document with neither compiles to
// an empty result.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML definition loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlRoot struct {
	Base     map[string]any            `yaml:"base"`
	Variants map[string]map[string]any `yaml:"variants"`
}

// Load parses the file at path and returns its raw document.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*compiler.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}

	var root yamlRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", path, err)
	}

	def := &compiler.Definition{
		Base:     normalizeMap(root.Base),
		Variants: make(map[string]map[string]any, len(root.Variants)),
	}
	for name, raw := range root.Variants {
		def.Variants[name] = normalizeMap(raw)
	}

	logger.Debug("Loaded YAML definition.", "path", path, "variants", len(def.Variants))
	return def, nil
}

// normalizeMap rewrites the decoded tree so that every nested mapping is a
// map[string]any and every integer is an int. yaml.v3 already keys string
// maps with strings, but values inside sequences may still decode as
// map[any]any when the document uses non-scalar keys.
func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

// Package loader turns pipeline definition documents into the raw
// attribute maps the compiler consumes. Two front-ends exist, YAML and
// HCL, and both produce the same document shape: a base attribute map
// plus one attribute map per variant. Everything downstream of this
// package is format-agnostic.
package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pipewright/pipewright/internal/compiler"
)

// Loader parses a single definition file into a compiler document.
type Loader interface {
	Load(ctx context.Context, path string) (*compiler.Definition, error)
}

// ForPath picks a front-end by file extension.
func ForPath(path string) (Loader, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	case ".hcl":
		return NewHCLLoader(), nil
	default:
		return nil, fmt.Errorf("no loader for file %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

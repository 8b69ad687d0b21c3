// Package resource models the external dependencies a pipeline definition
// declares (source repositories and their publish shadows) and the registry
// that de-duplicates them across variants.
package resource

import "strings"

// Identifier is the composite key of a resource. Identity is defined over
// (Type, BaseName, Qualifier) only; LogicalName is metadata carried for the
// variant that declared the resource, never part of equality.
type Identifier struct {
	Type        string
	BaseName    string
	Qualifier   string
	LogicalName string
}

// Key returns the identity tuple as a single comparable string.
func (id Identifier) Key() string {
	return id.Type + "|" + id.BaseName + "|" + id.Qualifier
}

// Name returns the dash-joined resource name; the qualifier is omitted when
// empty.
func (id Identifier) Name() string {
	parts := []string{id.Type, id.BaseName}
	if id.Qualifier != "" {
		parts = append(parts, id.Qualifier)
	}
	return strings.Join(parts, "-")
}

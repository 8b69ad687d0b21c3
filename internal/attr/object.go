package attr

import (
	"fmt"
	"sort"
	"time"
)

// Object is a schema-validated view over a raw attribute map. The raw map is
// the merge of the schema's defaults (lowest precedence) with the
// caller-supplied map; unknown keys are preserved so Validate can reject
// them by name rather than silently dropping them.
type Object struct {
	subject string
	schema  *Schema
	raw     map[string]any
}

// NewObject builds an object over raw. subject names the owning entity in
// error messages ("step build", "trait release", ...). The caller's map is
// deep-copied; the object exclusively owns its backing store.
func NewObject(subject string, schema *Schema, raw map[string]any) *Object {
	merged := schema.Defaults()
	for k, v := range raw {
		merged[k] = deepCopy(v)
	}
	return &Object{subject: subject, schema: schema, raw: merged}
}

// Validate checks that every required attribute is present and every present
// key is declared. All violations are collected before returning.
func (o *Object) Validate() error {
	var missing []string
	for _, name := range o.schema.RequiredNames() {
		if _, ok := o.raw[name]; !ok {
			missing = append(missing, name)
		}
	}
	var unknown []string
	for key := range o.raw {
		if !o.schema.knows(key) {
			unknown = append(unknown, key)
		}
	}
	if len(missing) == 0 && len(unknown) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(unknown)
	return &SchemaError{Subject: o.subject, Missing: missing, Unknown: unknown}
}

// Raw returns the backing map. Callers must treat it as read-only.
func (o *Object) Raw() map[string]any {
	return o.raw
}

// Get returns the value for name, if present.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.raw[name]
	return v, ok
}

// String returns the attribute as a string, or "" when absent or not a string.
func (o *Object) String(name string) string {
	if v, ok := o.raw[name].(string); ok {
		return v
	}
	return ""
}

// Bool returns the attribute as a bool, or false when absent or not a bool.
func (o *Object) Bool(name string) bool {
	if v, ok := o.raw[name].(bool); ok {
		return v
	}
	return false
}

// StringList returns the attribute as a list of strings. Both []string and
// []any (the decoder's shape) are accepted.
func (o *Object) StringList(name string) []string {
	switch v := o.raw[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Map returns the attribute as a nested map, or nil when absent.
func (o *Object) Map(name string) map[string]any {
	if v, ok := o.raw[name].(map[string]any); ok {
		return v
	}
	return nil
}

// Duration parses the attribute as a time.Duration string ("30m", "1h").
// Absent attributes yield zero without error.
func (o *Object) Duration(name string) (time.Duration, error) {
	v, ok := o.raw[name]
	if !ok {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%s: attribute %q: expected a duration string, got %T", o.subject, name, v)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: attribute %q: %w", o.subject, name, err)
	}
	return d, nil
}

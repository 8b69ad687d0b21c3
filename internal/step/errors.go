package step

import "fmt"

// DuplicateBindingError reports a second binding of an input or output
// variable on the same step.
type DuplicateBindingError struct {
	Step     string
	Variable string
	Kind     string // "input" or "output"
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("step %s: %s variable %q already bound", e.Step, e.Kind, e.Variable)
}

// NoSuchDependencyError reports removal of a dependency edge that does not
// exist.
type NoSuchDependencyError struct {
	Step       string
	Dependency string
}

func (e *NoSuchDependencyError) Error() string {
	return fmt.Sprintf("step %s does not depend on %s", e.Step, e.Dependency)
}

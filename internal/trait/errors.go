package trait

import (
	"fmt"
	"strings"
)

// UnknownTraitError reports a variant declaring a trait no module registered.
type UnknownTraitError struct {
	Name string
}

func (e *UnknownTraitError) Error() string {
	return fmt.Sprintf("unknown trait %q", e.Name)
}

// MissingDependencyError reports hard trait dependencies naming traits that
// are not declared on the variant. Missing holds every absent name at once.
type MissingDependencyError struct {
	Trait   string
	Missing []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("trait %s requires undeclared traits: %s", e.Trait, strings.Join(e.Missing, ", "))
}

// DuplicateStepError reports a transformer injecting a step whose name is
// already taken.
type DuplicateStepError struct {
	Step  string
	Trait string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("trait %s injects step %q which already exists", e.Trait, e.Step)
}

// OrderCycleError reports soft ordering dependencies that cycle, which makes
// a deterministic transformer order impossible.
type OrderCycleError struct {
	Traits []string
}

func (e *OrderCycleError) Error() string {
	return fmt.Sprintf("trait ordering cycle: %s", strings.Join(e.Traits, ", "))
}

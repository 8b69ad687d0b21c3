package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pipewright/pipewright/internal/step"
)

// CycleError reports a dependency cycle that survived the one-shot repair of
// trait-injected edges. Steps holds the sorted names of every step still on
// a cycle.
type CycleError struct {
	Variant string
	Steps   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("variant %s: circular step dependencies: %s", e.Variant, strings.Join(e.Steps, ", "))
}

// OrderedSteps topologically layers the step graph into batches. Each batch
// holds the sorted names of steps whose dependencies all lie in earlier
// batches; steps within a batch are mutually independent.
//
// If the graph cycles, one repair pass runs before failing: every
// cycle-participating edge owned by a synthetic step is removed, then the
// sort is retried exactly once. Edges owned by user-declared steps are never
// touched; an author's explicit ordering outranks machine-injected wiring.
// A cycle that survives repair is an authoring error, reported with the full
// remaining cycle membership.
func (v *Variant) OrderedSteps() ([][]string, error) {
	batches, ok := layer(v.steps)
	if ok {
		return batches, nil
	}

	members := cycleMembers(v.steps)
	repaired := false
	for name, component := range members {
		s := v.steps[name]
		if !s.Synthetic() {
			continue
		}
		for _, dep := range s.Dependencies() {
			// An edge participates in a cycle only when both of its
			// endpoints share a strongly connected component.
			if depComponent, inCycle := members[dep]; !inCycle || depComponent != component {
				continue
			}
			if err := s.RemoveDependencyName(dep); err != nil {
				return nil, err
			}
			repaired = true
		}
	}

	if repaired {
		if batches, ok := layer(v.steps); ok {
			return batches, nil
		}
	}

	remaining := cycleMembers(v.steps)
	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	return nil, &CycleError{Variant: v.name, Steps: names}
}

// layer runs Kahn's algorithm, emitting whole ready sets as batches. It
// reports false when not every step could be placed, i.e. the graph cycles.
func layer(steps map[string]*step.Step) ([][]string, bool) {
	pending := make(map[string]int, len(steps))
	for name, s := range steps {
		pending[name] = len(s.Dependencies())
	}

	placed := make(map[string]bool, len(steps))
	var batches [][]string
	for len(placed) < len(steps) {
		var ready []string
		for name, missing := range pending {
			if missing == 0 && !placed[name] {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return nil, false
		}
		sort.Strings(ready)
		for _, name := range ready {
			placed[name] = true
		}
		for name, s := range steps {
			if placed[name] {
				continue
			}
			count := 0
			for _, dep := range s.Dependencies() {
				if !placed[dep] {
					count++
				}
			}
			pending[name] = count
		}
		batches = append(batches, ready)
	}
	return batches, true
}

// cycleMembers maps every step lying on a dependency cycle to a component
// id, found via Tarjan's strongly connected components over the dependency
// edges. Components of size one cannot cycle because self-edges are dropped
// at construction.
func cycleMembers(steps map[string]*step.Step) map[string]int {
	index := make(map[string]int, len(steps))
	lowlink := make(map[string]int, len(steps))
	onStack := make(map[string]bool, len(steps))
	var stack []string
	next := 0
	component := 0
	members := make(map[string]int)

	var strongconnect func(name string)
	strongconnect = func(name string) {
		index[name] = next
		lowlink[name] = next
		next++
		stack = append(stack, name)
		onStack[name] = true

		for _, dep := range steps[name].Dependencies() {
			if _, ok := steps[dep]; !ok {
				continue // dangling edges are a validation concern, not ours
			}
			if _, visited := index[dep]; !visited {
				strongconnect(dep)
				if lowlink[dep] < lowlink[name] {
					lowlink[name] = lowlink[dep]
				}
			} else if onStack[dep] {
				if index[dep] < lowlink[name] {
					lowlink[name] = index[dep]
				}
			}
		}

		if lowlink[name] == index[name] {
			var scc []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				scc = append(scc, top)
				if top == name {
					break
				}
			}
			if len(scc) > 1 {
				for _, member := range scc {
					members[member] = component
				}
				component++
			}
		}
	}

	names := make([]string, 0, len(steps))
	for name := range steps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, visited := index[name]; !visited {
			strongconnect(name)
		}
	}
	return members
}

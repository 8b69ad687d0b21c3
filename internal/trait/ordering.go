package trait

import "sort"

// Order produces the transformer execution order. Hard dependencies are
// presence-checked first; soft ordering dependencies pointing at undeclared
// traits are simply dropped from the ordering graph. The topological sort
// breaks ties by name so identical input always orders identically.
func Order(transformers map[string]Transformer) ([]Transformer, error) {
	names := make([]string, 0, len(transformers))
	for name := range transformers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var missing []string
		for _, dep := range transformers[name].Dependencies() {
			if _, ok := transformers[dep]; !ok {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, &MissingDependencyError{Trait: name, Missing: missing}
		}
	}

	// before[t] holds the declared transformers that must order before t.
	before := make(map[string][]string, len(names))
	for _, name := range names {
		for _, dep := range transformers[name].OrderDependencies() {
			if _, ok := transformers[dep]; ok {
				before[name] = append(before[name], dep)
			}
		}
	}

	placed := make(map[string]bool, len(names))
	ordered := make([]Transformer, 0, len(names))
	for len(ordered) < len(names) {
		progress := false
		for _, name := range names {
			if placed[name] {
				continue
			}
			ready := true
			for _, dep := range before[name] {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				placed[name] = true
				ordered = append(ordered, transformers[name])
				progress = true
			}
		}
		if !progress {
			var stuck []string
			for _, name := range names {
				if !placed[name] {
					stuck = append(stuck, name)
				}
			}
			return nil, &OrderCycleError{Traits: stuck}
		}
	}
	return ordered, nil
}

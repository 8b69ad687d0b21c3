package attr

import "strings"

// ListStrategyFunc decides the merge strategy for the list value at the
// given dotted key path (e.g. "traits.release.git_tags"). The zero decision
// is Concatenate.
type ListStrategyFunc func(path string) MergeStrategy

// Merge combines an inherited base map with an overriding map, per key:
//
//   - both values are maps: merged recursively
//   - both values are lists: concatenated base-first, unless strategy
//     selects Replace for the key path
//   - anything else: the override wins
//
// Neither input is mutated; the result shares no mutable state with either.
// strategy may be nil, which concatenates every list.
func Merge(base, override map[string]any, strategy ListStrategyFunc) map[string]any {
	return mergeMaps(base, override, strategy, nil)
}

func mergeMaps(base, override map[string]any, strategy ListStrategyFunc, path []string) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = deepCopy(v)
	}
	for k, v := range override {
		keyPath := append(append([]string(nil), path...), k)
		baseVal, exists := out[k]
		if !exists {
			out[k] = deepCopy(v)
			continue
		}
		switch ov := v.(type) {
		case map[string]any:
			if bm, ok := baseVal.(map[string]any); ok {
				out[k] = mergeMaps(bm, ov, strategy, keyPath)
				continue
			}
		case []any:
			if bl, ok := baseVal.([]any); ok {
				out[k] = mergeLists(bl, ov, strategy, keyPath)
				continue
			}
		}
		out[k] = deepCopy(v)
	}
	return out
}

func mergeLists(base, override []any, strategy ListStrategyFunc, path []string) []any {
	if strategy != nil && strategy(strings.Join(path, ".")) == Replace {
		return deepCopy(override).([]any)
	}
	merged := make([]any, 0, len(base)+len(override))
	merged = append(merged, deepCopy(base).([]any)...)
	merged = append(merged, deepCopy(override).([]any)...)
	return merged
}

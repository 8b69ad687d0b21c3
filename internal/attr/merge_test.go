package attr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Run("override wins per key, maps merge recursively", func(t *testing.T) {
		base := map[string]any{
			"repo": map[string]any{"path": "acme/tooling", "branch": "master"},
			"steps": map[string]any{
				"build": map[string]any{"execute": "build.sh"},
			},
		}
		override := map[string]any{
			"repo": map[string]any{"branch": "release-1.0"},
			"steps": map[string]any{
				"test": map[string]any{"execute": "test.sh"},
			},
		}

		got := Merge(base, override, nil)
		want := map[string]any{
			"repo": map[string]any{"path": "acme/tooling", "branch": "release-1.0"},
			"steps": map[string]any{
				"build": map[string]any{"execute": "build.sh"},
				"test":  map[string]any{"execute": "test.sh"},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("merged document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lists concatenate by default", func(t *testing.T) {
		got := Merge(
			map[string]any{"tags": []any{"a"}},
			map[string]any{"tags": []any{"b"}},
			nil,
		)
		assert.Equal(t, []any{"a", "b"}, got["tags"])
	})

	t.Run("replace strategy honored by key path", func(t *testing.T) {
		strategy := func(path string) MergeStrategy {
			if path == "traits.release.git_tags" {
				return Replace
			}
			return Concatenate
		}
		got := Merge(
			map[string]any{"traits": map[string]any{"release": map[string]any{
				"git_tags": []any{"v1"},
				"assets":   []any{"sbom"},
			}}},
			map[string]any{"traits": map[string]any{"release": map[string]any{
				"git_tags": []any{"v2"},
				"assets":   []any{"notes"},
			}}},
			strategy,
		)
		release := got["traits"].(map[string]any)["release"].(map[string]any)
		assert.Equal(t, []any{"v2"}, release["git_tags"])
		assert.Equal(t, []any{"sbom", "notes"}, release["assets"])
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		base := map[string]any{"m": map[string]any{"a": 1}}
		override := map[string]any{"m": map[string]any{"b": 2}}
		got := Merge(base, override, nil)

		got["m"].(map[string]any)["a"] = 99
		assert.Equal(t, 1, base["m"].(map[string]any)["a"])
		assert.Len(t, override["m"], 1)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		base := map[string]any{"a": []any{1}, "b": map[string]any{"c": "x"}}
		override := map[string]any{"a": []any{2}, "b": map[string]any{"d": "y"}}
		first := Merge(base, override, nil)
		second := Merge(base, override, nil)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("merge is not deterministic (-first +second):\n%s", diff)
		}
	})
}

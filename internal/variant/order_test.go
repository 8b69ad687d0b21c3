package variant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/step"
)

func userStep(t *testing.T, v *Variant, name string, deps ...string) *step.Step {
	t.Helper()
	raw := map[string]any{}
	if len(deps) > 0 {
		list := make([]any, len(deps))
		for i, d := range deps {
			list[i] = d
		}
		raw["depends"] = list
	}
	s, err := step.New(name, raw)
	require.NoError(t, err)
	v.AddStep(s)
	return s
}

func syntheticStep(t *testing.T, v *Variant, name, trait string, deps ...string) *step.Step {
	t.Helper()
	s, err := step.NewSynthetic(name, trait, nil)
	require.NoError(t, err)
	for _, d := range deps {
		s.AddDependencyName(d)
	}
	v.AddStep(s)
	return s
}

func TestOrderedSteps(t *testing.T) {
	t.Run("acyclic graph layers into batches", func(t *testing.T) {
		v := New("main")
		userStep(t, v, "foo")
		userStep(t, v, "bar", "foo")
		prepare := syntheticStep(t, v, "prepare", "setup", "foo")
		bar, _ := v.Step("bar")
		bar.AddDependency(prepare)

		batches, err := v.OrderedSteps()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"foo"}, {"prepare"}, {"bar"}}, batches)
	})

	t.Run("independent steps share a batch", func(t *testing.T) {
		v := New("main")
		userStep(t, v, "lint")
		userStep(t, v, "generate")
		userStep(t, v, "build", "lint", "generate")

		batches, err := v.OrderedSteps()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"generate", "lint"}, {"build"}}, batches)
	})

	t.Run("every step appears exactly once with deps in earlier batches", func(t *testing.T) {
		v := New("main")
		userStep(t, v, "a")
		userStep(t, v, "b", "a")
		userStep(t, v, "c", "a")
		userStep(t, v, "d", "b", "c")
		userStep(t, v, "e")

		batches, err := v.OrderedSteps()
		require.NoError(t, err)

		batchOf := map[string]int{}
		for i, batch := range batches {
			for _, name := range batch {
				_, seen := batchOf[name]
				require.False(t, seen, "step %s placed twice", name)
				batchOf[name] = i
			}
		}
		require.Len(t, batchOf, 5)
		for _, s := range v.Steps() {
			for _, dep := range s.Dependencies() {
				assert.Less(t, batchOf[dep], batchOf[s.Name()],
					"dependency %s of %s must be in an earlier batch", dep, s.Name())
			}
		}
	})

	t.Run("synthetic-owned cycle edge is repaired once", func(t *testing.T) {
		v := New("main")
		u1 := userStep(t, v, "u1")
		s1 := syntheticStep(t, v, "s1", "setup", "u1")
		u1.AddDependency(s1)

		batches, err := v.OrderedSteps()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"s1"}, {"u1"}}, batches)

		// The synthetic step lost its edge; the user-declared one survived.
		assert.False(t, s1.DependsOn("u1"))
		assert.True(t, u1.DependsOn("s1"))
	})

	t.Run("all-user cycle is reported, not repaired", func(t *testing.T) {
		v := New("main")
		a := userStep(t, v, "a", "b")
		userStep(t, v, "b", "c")
		userStep(t, v, "c", "a")
		userStep(t, v, "outside")

		_, err := v.OrderedSteps()
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, "main", cycleErr.Variant)
		assert.Equal(t, []string{"a", "b", "c"}, cycleErr.Steps)

		// No edge was touched.
		assert.True(t, a.DependsOn("b"))
	})

	t.Run("cycle surviving repair names remaining members", func(t *testing.T) {
		v := New("main")
		// User cycle a<->b plus a synthetic cycle s<->c repaired away.
		userStep(t, v, "a", "b")
		userStep(t, v, "b", "a")
		c := userStep(t, v, "c")
		s := syntheticStep(t, v, "s", "setup", "c")
		c.AddDependency(s)

		_, err := v.OrderedSteps()
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, []string{"a", "b"}, cycleErr.Steps)
		assert.False(t, s.DependsOn("c"))
	})

	t.Run("edge from user step to synthetic step is never removed", func(t *testing.T) {
		v := New("main")
		// Mixed cycle where only the synthetic member owns a removable edge.
		u := userStep(t, v, "u")
		s := syntheticStep(t, v, "s", "setup", "u")
		u.AddDependency(s)

		_, err := v.OrderedSteps()
		require.NoError(t, err)
		assert.True(t, u.DependsOn("s"))
	})

	t.Run("empty variant yields no batches", func(t *testing.T) {
		v := New("main")
		batches, err := v.OrderedSteps()
		require.NoError(t, err)
		assert.Empty(t, batches)
	})
}

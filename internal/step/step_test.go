package step

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("declared attributes decoded", func(t *testing.T) {
		s, err := New("build", map[string]any{
			"execute":    "build.sh",
			"depends":    []any{"lint", "generate"},
			"timeout":    "30m",
			"privileged": true,
			"publish_to": []any{"main"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"generate", "lint"}, s.Dependencies())
		assert.Equal(t, 30*time.Minute, s.Timeout())
		assert.True(t, s.Privileged())
		assert.Equal(t, []string{"main"}, s.PublishTo())
		assert.False(t, s.Synthetic())
	})

	t.Run("unknown attributes rejected", func(t *testing.T) {
		_, err := New("build", map[string]any{"exeucte": "build.sh"})
		assert.Error(t, err)
	})

	t.Run("self dependency silently dropped", func(t *testing.T) {
		s, err := New("build", map[string]any{"depends": []any{"build", "lint"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"lint"}, s.Dependencies())
	})

	t.Run("synthetic step carries injecting trait", func(t *testing.T) {
		s, err := NewSynthetic("version", "version", nil)
		require.NoError(t, err)
		assert.True(t, s.Synthetic())
		assert.Equal(t, "version", s.InjectedBy())
	})
}

func TestDependencyMutation(t *testing.T) {
	build, err := New("build", nil)
	require.NoError(t, err)
	lint, err := New("lint", nil)
	require.NoError(t, err)

	t.Run("add then remove", func(t *testing.T) {
		build.AddDependency(lint)
		assert.True(t, build.DependsOn("lint"))
		require.NoError(t, build.RemoveDependency(lint))
		assert.False(t, build.DependsOn("lint"))
	})

	t.Run("adding self is a no-op", func(t *testing.T) {
		build.AddDependency(build)
		assert.False(t, build.DependsOn("build"))
	})

	t.Run("removing a missing edge fails", func(t *testing.T) {
		err := build.RemoveDependency(lint)
		var nsErr *NoSuchDependencyError
		require.True(t, errors.As(err, &nsErr))
		assert.Equal(t, "build", nsErr.Step)
		assert.Equal(t, "lint", nsErr.Dependency)
	})
}

func TestBindings(t *testing.T) {
	s, err := New("build", nil)
	require.NoError(t, err)

	require.NoError(t, s.AddInput("EFFECTIVE_VERSION", "version"))
	require.NoError(t, s.AddOutput("BUILD_RESULT", "build_result_dir"))

	t.Run("rebinding an input fails", func(t *testing.T) {
		err := s.AddInput("EFFECTIVE_VERSION", "other")
		var dupErr *DuplicateBindingError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "input", dupErr.Kind)
	})

	t.Run("rebinding an output fails", func(t *testing.T) {
		err := s.AddOutput("BUILD_RESULT", "elsewhere")
		var dupErr *DuplicateBindingError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "output", dupErr.Kind)
	})

	t.Run("lookup by producer", func(t *testing.T) {
		assert.Equal(t, "EFFECTIVE_VERSION", s.InputFrom("version"))
		assert.Equal(t, "", s.InputFrom("nope"))
	})

	t.Run("remove frees the variable", func(t *testing.T) {
		s.RemoveInput("EFFECTIVE_VERSION")
		assert.NoError(t, s.AddInput("EFFECTIVE_VERSION", "version"))
	})
}

func TestCommandResolution(t *testing.T) {
	t.Run("scalar execute", func(t *testing.T) {
		s, err := New("build", map[string]any{"execute": "build.sh"})
		require.NoError(t, err)
		argv, err := s.Argv()
		require.NoError(t, err)
		assert.Equal(t, []string{"build.sh"}, argv)

		exe, err := s.Executable()
		require.NoError(t, err)
		assert.Equal(t, "build.sh", exe)
	})

	t.Run("list execute", func(t *testing.T) {
		s, err := New("build", map[string]any{"execute": []any{"make", "-j", "all"}})
		require.NoError(t, err)
		argv, err := s.Argv()
		require.NoError(t, err)
		assert.Equal(t, []string{"make", "-j", "all"}, argv)
	})

	t.Run("no execute resolves to nil", func(t *testing.T) {
		s, err := New("build", nil)
		require.NoError(t, err)
		argv, err := s.Argv()
		require.NoError(t, err)
		assert.Nil(t, argv)
	})

	t.Run("shell quoting", func(t *testing.T) {
		s, err := New("build", map[string]any{"execute": []any{"echo", "hello world"}})
		require.NoError(t, err)
		cmd, err := s.ResolvedCommand()
		require.NoError(t, err)
		assert.Equal(t, "echo 'hello world'", cmd)
	})
}

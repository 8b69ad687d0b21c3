package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/resource"
	"github.com/pipewright/pipewright/internal/step"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

func newTrait(t *testing.T, raw map[string]any) *Trait {
	t.Helper()
	r := trait.NewRegistry()
	(&Module{}).Register(r)
	built, err := r.New(trait.Info{Name: TraitName, VariantName: "ci", Raw: raw})
	require.NoError(t, err)
	return built.(*Trait)
}

func userStep(t *testing.T, name string) *step.Step {
	t.Helper()
	s, err := step.New(name, map[string]any{"execute": name + ".sh"})
	require.NoError(t, err)
	return s
}

func mainRepo(t *testing.T) *resource.Repository {
	t.Helper()
	r, err := resource.NewRepository(map[string]any{"path": "acme/app", "branch": "main"}, true)
	require.NoError(t, err)
	return r
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		tr := newTrait(t, nil)
		assert.Equal(t, "bump_minor", tr.Config.NextVersion)
		assert.Equal(t, []string{"{version}"}, tr.Config.GitTags)
	})

	t.Run("overrides", func(t *testing.T) {
		tr := newTrait(t, map[string]any{
			"nextversion": "noop",
			"git_tags":    []any{"v2-{version}", "latest"},
		})
		assert.Equal(t, "noop", tr.Config.NextVersion)
		assert.Equal(t, []string{"v2-{version}", "latest"}, tr.Config.GitTags)
	})
}

func TestDependencies(t *testing.T) {
	tr := newTrait(t, nil).Transformer()
	assert.Equal(t, []string{"version"}, tr.Dependencies())
	assert.Equal(t, []string{"component_descriptor"}, tr.OrderDependencies())
}

func TestInjectSteps(t *testing.T) {
	steps, err := newTrait(t, nil).Transformer().InjectSteps()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, StepName, steps[0].Name())
	assert.True(t, steps[0].Synthetic())
}

func TestProcess(t *testing.T) {
	t.Run("release runs last and kills the trigger", func(t *testing.T) {
		tr := newTrait(t, nil).Transformer()

		v := variant.New("ci")
		v.AddRepository(mainRepo(t))
		v.AddStep(userStep(t, "build"))
		v.AddStep(userStep(t, "test"))
		injected, err := tr.InjectSteps()
		require.NoError(t, err)
		v.AddStep(injected[0])

		require.NoError(t, tr.Process(v))

		releaseStep, _ := v.Step(StepName)
		assert.True(t, releaseStep.DependsOn("build"))
		assert.True(t, releaseStep.DependsOn("test"))

		main, ok := v.MainRepository()
		require.True(t, ok)
		assert.False(t, main.ShouldTrigger())
	})

	t.Run("no-op without the release step", func(t *testing.T) {
		tr := newTrait(t, nil).Transformer()
		v := variant.New("ci")
		v.AddRepository(mainRepo(t))
		require.NoError(t, tr.Process(v))

		main, _ := v.MainRepository()
		assert.True(t, main.ShouldTrigger())
	})
}

package pullrequest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/resource"
	"github.com/pipewright/pipewright/internal/trait"
	"github.com/pipewright/pipewright/internal/variant"
)

func newTrait(t *testing.T, raw map[string]any) *Trait {
	t.Helper()
	r := trait.NewRegistry()
	(&Module{}).Register(r)
	built, err := r.New(trait.Info{Name: TraitName, VariantName: "pr", Raw: raw})
	require.NoError(t, err)
	return built.(*Trait)
}

func TestConfig(t *testing.T) {
	tr := newTrait(t, map[string]any{
		"policies":              map[string]any{"infra": "two-reviewers"},
		"disable_status_report": true,
	})
	assert.Equal(t, "two-reviewers", tr.Config.Policies["infra"])
	assert.True(t, tr.Config.DisableStatusReport)
}

func TestProcess(t *testing.T) {
	t.Run("disables the main repository trigger", func(t *testing.T) {
		repo, err := resource.NewRepository(map[string]any{"path": "acme/app", "branch": "main"}, true)
		require.NoError(t, err)

		v := variant.New("pr")
		v.AddRepository(repo)

		require.NoError(t, newTrait(t, nil).Transformer().Process(v))

		main, ok := v.MainRepository()
		require.True(t, ok)
		assert.False(t, main.ShouldTrigger())
	})

	t.Run("no-op without a main repository", func(t *testing.T) {
		v := variant.New("pr")
		require.NoError(t, newTrait(t, nil).Transformer().Process(v))
	})
}

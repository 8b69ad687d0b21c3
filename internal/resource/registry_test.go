package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T, raw map[string]any, main bool) *Repository {
	t.Helper()
	r, err := NewRepository(raw, main)
	require.NoError(t, err)
	return r
}

func TestIdentifier(t *testing.T) {
	t.Run("logical name is not identity", func(t *testing.T) {
		a := Identifier{Type: "git", BaseName: "acme.tooling", LogicalName: "main"}
		b := Identifier{Type: "git", BaseName: "acme.tooling", LogicalName: "other"}
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("name omits empty qualifier", func(t *testing.T) {
		id := Identifier{Type: "git", BaseName: "acme.tooling"}
		assert.Equal(t, "git-acme.tooling", id.Name())

		id.Qualifier = "publish"
		assert.Equal(t, "git-acme.tooling-publish", id.Name())
	})
}

func TestRegistryAdd(t *testing.T) {
	rawMain := map[string]any{"path": "acme/tooling", "branch": "master"}

	t.Run("duplicate with discard keeps first and ORs trigger", func(t *testing.T) {
		reg := NewRegistry()
		first := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master", "trigger": false}, true)
		second := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master", "trigger": true}, true)

		require.NoError(t, reg.Add(first, true))
		require.NoError(t, reg.Add(second, true))
		require.Equal(t, 1, reg.Len())

		got, err := reg.Get(first.Identifier())
		require.NoError(t, err)
		assert.Same(t, Resource(first), got)
		assert.True(t, got.(*Repository).ShouldTrigger())
	})

	t.Run("trigger is never lost in either insertion order", func(t *testing.T) {
		reg := NewRegistry()
		first := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master", "trigger": true}, true)
		second := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master", "trigger": false}, true)

		require.NoError(t, reg.Add(first, true))
		require.NoError(t, reg.Add(second, true))
		got, err := reg.Get(first.Identifier())
		require.NoError(t, err)
		assert.True(t, got.(*Repository).ShouldTrigger())
	})

	t.Run("duplicate without discard fails", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Add(testRepo(t, rawMain, true), false))
		err := reg.Add(testRepo(t, rawMain, true), false)

		var dupErr *DuplicateError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "git-acme.tooling", dupErr.ID.Name())
	})

	t.Run("get of unregistered identifier fails", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Get(Identifier{Type: "git", BaseName: "nope"})

		var nfErr *NotFoundError
		assert.True(t, errors.As(err, &nfErr))
	})
}

func TestRegistryOfType(t *testing.T) {
	reg := NewRegistry()
	main := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master"}, true)
	other := testRepo(t, map[string]any{"name": "docs", "path": "acme/docs", "branch": "main"}, false)

	require.NoError(t, reg.Add(main, true))
	require.NoError(t, reg.Add(other, true))
	require.NoError(t, reg.Add(main.PublishShadow(), true))

	assert.Len(t, reg.OfType("git", ""), 3)
	published := reg.OfType("git", "publish")
	require.Len(t, published, 1)
	assert.Equal(t, "publish", published[0].Identifier().Qualifier)

	// Restartable: a second listing yields the same result.
	assert.Equal(t, reg.OfType("git", ""), reg.OfType("git", ""))
}

func TestRepository(t *testing.T) {
	t.Run("main repo triggers by default", func(t *testing.T) {
		r := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master"}, true)
		assert.True(t, r.ShouldTrigger())
		assert.Equal(t, "main", r.LogicalName())
		assert.NoError(t, r.Validate())
	})

	t.Run("additional repo does not trigger by default", func(t *testing.T) {
		r := testRepo(t, map[string]any{"name": "docs", "path": "acme/docs", "branch": "main"}, false)
		assert.False(t, r.ShouldTrigger())
		assert.Equal(t, "docs", r.LogicalName())
	})

	t.Run("declared trigger wins over default", func(t *testing.T) {
		r := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master", "trigger": false}, true)
		assert.False(t, r.ShouldTrigger())
	})

	t.Run("malformed path rejected", func(t *testing.T) {
		r := testRepo(t, map[string]any{"path": "tooling", "branch": "master"}, true)
		assert.Error(t, r.Validate())
	})

	t.Run("publish shadow shares identity base but not trigger", func(t *testing.T) {
		r := testRepo(t, map[string]any{"path": "acme/tooling", "branch": "master"}, true)
		shadow := r.PublishShadow()
		assert.False(t, shadow.ShouldTrigger())
		assert.NotEqual(t, r.Identifier().Key(), shadow.Identifier().Key())
		assert.Equal(t, r.Identifier().BaseName, shadow.Identifier().BaseName)
	})
}

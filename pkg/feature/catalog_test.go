package feature_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/feature"
)

func loadCatalogFile(t *testing.T, path string) *feature.Catalog {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	c, err := feature.LoadCatalog(f)
	require.NoError(t, err)
	return c
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("yaml with features wrapper", func(t *testing.T) {
		t.Parallel()
		c := loadCatalogFile(t, "testdata/features.yaml")

		assert.Equal(t, 4, c.Len())
		assert.Equal(t, []feature.Name{"checkout-v2", "new-search", "dark-mode", "beta-banner"}, c.Names())

		def, ok := c.Lookup("checkout-v2")
		require.True(t, ok)
		assert.Equal(t, "New checkout flow", def.Description)
		assert.Equal(t, feature.StorageCookie, def.Storage)
		assert.True(t, def.SupportsQuery)
		assert.Equal(t, feature.StateUnset, def.DefaultState)
		assert.False(t, def.Status.IsScalar())
		assert.Equal(t, feature.Status("off"), def.Status.For(environment.Production))
		assert.Equal(t, feature.Status("on"), def.Status.For(environment.Staging))
		assert.False(t, def.Status.For(environment.Development).Defined())

		def, ok = c.Lookup("new-search")
		require.True(t, ok)
		assert.Equal(t, feature.StateOff, def.DefaultState)
		assert.Equal(t, feature.StorageLocal, def.Storage)
		assert.True(t, def.Status.IsScalar())

		def, ok = c.Lookup("dark-mode")
		require.True(t, ok)
		assert.False(t, def.SupportsQuery)
		assert.Equal(t, feature.StorageNone, def.Storage)
		assert.Equal(t, map[string]any{"theme": "midnight", "contrast": 4}, def.Data)
	})

	t.Run("json keeps file order", func(t *testing.T) {
		t.Parallel()
		c := loadCatalogFile(t, "testdata/features.json")

		assert.Equal(t, []feature.Name{"zeta", "alpha", "mid"}, c.Names())

		def, ok := c.Lookup("alpha")
		require.True(t, ok)
		assert.Equal(t, feature.StorageLocal, def.Storage)
		assert.Equal(t, feature.Status("true"), def.Status.For(environment.Staging))

		def, ok = c.Lookup("mid")
		require.True(t, ok)
		assert.Equal(t, feature.StateOn, def.DefaultState)
		assert.False(t, def.SupportsQuery)
	})

	t.Run("bare mapping", func(t *testing.T) {
		t.Parallel()
		c, err := feature.LoadCatalog(strings.NewReader("a:\n  status: \"on\"\nb:\n  status: \"off\"\n"))
		require.NoError(t, err)
		assert.Equal(t, []feature.Name{"a", "b"}, c.Names())
	})

	t.Run("single flag named features", func(t *testing.T) {
		t.Parallel()
		c, err := feature.LoadCatalog(strings.NewReader("features:\n  status: \"on\"\n  storage: local\n"))
		require.NoError(t, err)
		assert.Equal(t, []feature.Name{"features"}, c.Names())

		def, ok := c.Lookup("features")
		require.True(t, ok)
		assert.Equal(t, feature.StorageLocal, def.Storage)
		assert.Equal(t, feature.StateOn, def.Status.For(environment.Production).State(def.DefaultState))
	})

	t.Run("wrapper holding a flag named features", func(t *testing.T) {
		t.Parallel()
		c, err := feature.LoadCatalog(strings.NewReader("features:\n  features:\n    status: \"off\"\n"))
		require.NoError(t, err)
		assert.Equal(t, []feature.Name{"features"}, c.Names())
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		c, err := feature.LoadCatalog(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Names())
	})

	invalid := map[string]string{
		"unknown status":        "a:\n  status: maybe\n",
		"unknown env status":    "a:\n  status:\n    prod: sometimes\n",
		"unknown environment":   "a:\n  status:\n    qa: \"on\"\n",
		"duplicate environment": "a:\n  status:\n    prod: \"on\"\n    production: \"off\"\n",
		"unknown storage":       "a:\n  status: \"on\"\n  storage: disk\n",
		"bad default state":     "a:\n  status: \"on\"\n  defaultState: maybe\n",
		"switchable default":    "a:\n  status: \"on\"\n  defaultState: switchable\n",
		"missing status":        "a:\n  description: nothing else\n",
		"invalid name":          "\"bad name\":\n  status: \"on\"\n",
		"not a mapping":         "- a\n- b\n",
		"malformed":             "a: [\n",
		"status list":           "a:\n  status: [on, off]\n",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := feature.LoadCatalog(strings.NewReader(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
		})
	}
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("normalizes defaults", func(t *testing.T) {
		t.Parallel()
		c, err := feature.NewCatalog(feature.NamedDefinition{
			Name:       "plain",
			Definition: feature.Definition{Status: feature.ScalarStatus("on")},
		})
		require.NoError(t, err)

		def, ok := c.Lookup("plain")
		require.True(t, ok)
		assert.Equal(t, feature.StateUnset, def.DefaultState)
		assert.Equal(t, feature.StorageNone, def.Storage)
	})

	t.Run("define defaults to query support", func(t *testing.T) {
		t.Parallel()
		c := feature.MustNewCatalog(feature.Define("a", feature.ScalarStatus("on")))

		def, _ := c.Lookup("a")
		assert.True(t, def.SupportsQuery)
	})

	t.Run("storage aliases", func(t *testing.T) {
		t.Parallel()
		c := feature.MustNewCatalog(
			feature.Define("s", feature.ScalarStatus("on"), feature.WithStorage("session")),
			feature.Define("p", feature.ScalarStatus("on"), feature.WithStorage("Persistent")),
		)

		def, _ := c.Lookup("s")
		assert.Equal(t, feature.StorageCookie, def.Storage)
		def, _ = c.Lookup("p")
		assert.Equal(t, feature.StorageLocal, def.Storage)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()
		_, err := feature.NewCatalog(
			feature.Define("a", feature.ScalarStatus("on")),
			feature.Define("a", feature.ScalarStatus("off")),
		)
		assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
	})

	t.Run("invalid environment key", func(t *testing.T) {
		t.Parallel()
		_, err := feature.NewCatalog(feature.Define("a", feature.EnvStatus(map[environment.Environment]string{
			"qa": "on",
		})))
		assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
		assert.ErrorIs(t, err, environment.ErrUnknownEnvironment)
	})

	t.Run("invalid default state", func(t *testing.T) {
		t.Parallel()
		_, err := feature.NewCatalog(feature.Define("a", feature.ScalarStatus("on"),
			feature.WithDefaultState("maybe")))
		assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
		assert.ErrorIs(t, err, feature.ErrInvalidState)
	})

	t.Run("must panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			feature.MustNewCatalog(feature.Define("", feature.ScalarStatus("on")))
		})
	})

	t.Run("names returns a copy", func(t *testing.T) {
		t.Parallel()
		c := feature.MustNewCatalog(feature.Define("a", feature.ScalarStatus("on")))
		names := c.Names()
		names[0] = "mutated"
		assert.True(t, c.Has("a"))
		assert.Equal(t, []feature.Name{"a"}, c.Names())
		assert.False(t, c.Has("mutated"))
	})
}

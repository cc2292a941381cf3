package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/feature"
)

func TestParseState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want feature.State
	}{
		{"on", feature.StateOn},
		{" Enabled ", feature.StateOn},
		{"TRUE", feature.StateOn},
		{"1", feature.StateOn},
		{"off", feature.StateOff},
		{"disabled", feature.StateOff},
		{"false", feature.StateOff},
		{"0", feature.StateOff},
		{"unset", feature.StateUnset},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := feature.ParseState(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{"", "switchable", "yes", "2"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			t.Parallel()
			_, err := feature.ParseState(raw)
			assert.ErrorIs(t, err, feature.ErrInvalidState)
		})
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	assert.True(t, feature.StateOn.Enabled())
	assert.False(t, feature.StateOff.Enabled())
	assert.False(t, feature.StateUnset.Enabled())
	assert.True(t, feature.StateUnset.IsValid())
	assert.False(t, feature.State("maybe").IsValid())
	assert.Equal(t, "off", feature.StateOff.String())
}

func TestStatusState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, feature.StateOn, feature.Status("enabled").State(feature.StateOff))
	assert.Equal(t, feature.StateOff, feature.Status("0").State(feature.StateOn))
	assert.Equal(t, feature.StateOn, feature.Status("switchable").State(feature.StateOn))
	assert.Equal(t, feature.StateUnset, feature.Status("switchable").State(feature.StateUnset))
	assert.Equal(t, feature.StateOff, feature.Status("").State(feature.StateOff))
	assert.False(t, feature.Status("").Defined())
}

func TestStatusRecord(t *testing.T) {
	t.Parallel()

	scalar := feature.ScalarStatus("on")
	assert.True(t, scalar.IsScalar())
	for _, env := range environment.All() {
		assert.Equal(t, feature.Status("on"), scalar.For(env))
	}

	src := map[environment.Environment]string{environment.Production: "off"}
	perEnv := feature.EnvStatus(src)
	src[environment.Staging] = "on"

	assert.False(t, perEnv.IsScalar())
	assert.Equal(t, feature.Status("off"), perEnv.For(environment.Production))
	assert.False(t, perEnv.For(environment.Staging).Defined(), "record must not alias the input map")
}

func TestParseStorage(t *testing.T) {
	t.Parallel()

	tests := map[string]feature.Storage{
		"":           feature.StorageNone,
		"none":       feature.StorageNone,
		"cookie":     feature.StorageCookie,
		"Session":    feature.StorageCookie,
		"local":      feature.StorageLocal,
		"persistent": feature.StorageLocal,
	}
	for raw, want := range tests {
		got, err := feature.ParseStorage(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := feature.ParseStorage("disk")
	require.Error(t, err)

	assert.False(t, feature.StorageNone.AllowsOverride())
	assert.True(t, feature.StorageCookie.AllowsOverride())
	assert.True(t, feature.StorageLocal.AllowsOverride())
}

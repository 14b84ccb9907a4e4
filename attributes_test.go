package docver_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttributes(t *testing.T) {
	t.Parallel()

	t.Run("extracts well-known keys", func(t *testing.T) {
		t.Parallel()

		a := docver.NewAttributes(map[string]any{
			"title":       "Quick Start",
			"description": "Get going",
			"disabled":    true,
			"order":       3,
		})

		assert.Equal(t, "Quick Start", a.Title)
		assert.Equal(t, "Get going", a.Description)
		assert.True(t, a.Disabled)
		assert.Equal(t, map[string]any{"order": 3}, a.Extra)
	})

	t.Run("coerces string flags", func(t *testing.T) {
		t.Parallel()

		a := docver.NewAttributes(map[string]any{"disabled": "yes"})

		assert.True(t, a.Disabled)
		assert.Nil(t, a.Extra)
	})

	t.Run("keeps mistyped well-known keys in extra", func(t *testing.T) {
		t.Parallel()

		a := docver.NewAttributes(map[string]any{"title": 42})

		assert.Empty(t, a.Title)
		assert.Equal(t, 42, a.Extra["title"])
	})
}

func TestAttributes_Get(t *testing.T) {
	t.Parallel()

	a := docver.NewAttributes(map[string]any{"title": "API", "sidebar": "reference"})

	v, ok := a.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "API", v)

	v, ok = a.Get("sidebar")
	assert.True(t, ok)
	assert.Equal(t, "reference", v)

	_, ok = a.Get("disabled")
	assert.False(t, ok)
}

func TestAttributes_JSON(t *testing.T) {
	t.Parallel()

	a := docver.NewAttributes(map[string]any{"title": "API", "disabled": true, "tag": "beta"})

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"API","disabled":true,"tag":"beta"}`, string(data))

	var decoded docver.Attributes
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, a, decoded)
}

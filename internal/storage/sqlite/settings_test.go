package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitflow/internal/errors"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	value, err := store.GetSetting(ctx, "theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "light", value)

	require.NoError(t, store.SetSetting(ctx, "theme", "dark"))
	require.NoError(t, store.SetSetting(ctx, "theme", "solarized"))

	value, err = store.GetSetting(ctx, "theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "solarized", value)

	require.NoError(t, store.SetSetting(ctx, "empty", ""))
	value, err = store.GetSetting(ctx, "empty", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSettingsRejectEmptyKey(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	err := store.SetSetting(ctx, " ", "x")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = store.GetSetting(ctx, "", "x")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pomogo/internal/config"
)

func TestPersistSettingsWritesAdjustedDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POMO_CONFIG_DIR", dir)

	settings := config.DefaultSettings()
	settings.ConfigDir = dir

	persistSettings(settings, 40*time.Minute, zap.NewNop())

	loaded, err := config.Load(appName)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Minute, loaded.WorkDuration)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrate/internal/config"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("GO_CELEBRATE_TARGET", "2025-12-10T09:00:00")
	t.Setenv("GO_CELEBRATE_NAME", "Ada")
	t.Setenv("GO_CELEBRATE_LANG", "fr")
	t.Setenv("GO_CELEBRATE_MOBILE", "true")

	d, err := loadEnvDefaults()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-10T09:00:00", d.Target)
	assert.Equal(t, "Ada", d.Name)
	assert.Equal(t, "fr", d.Lang)
	assert.True(t, d.Mobile)
	assert.False(t, d.Debug)
	assert.Empty(t, d.VCard)
}

func TestLoadEnvDefaults_InvalidBool(t *testing.T) {
	t.Setenv("GO_CELEBRATE_DEBUG", "maybe")

	_, err := loadEnvDefaults()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrEnvParse)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gocleanarch.yml")
	require.NoError(t, os.WriteFile(path, []byte(`ignore_tests: true
shared_modules: [shared]
allow_violations: ["cmd/vit-data"]
aliases:
  application: [services, usecases]
`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.IgnoreTests)
	assert.Equal(t, []string{"shared"}, cfg.SharedModules)

	layers := cfg.layers()
	assert.Equal(t, cleanarch.LayerApplication, layers["usecases"])
	assert.Equal(t, cleanarch.LayerDomain, layers["domain"])
	assert.Equal(t, cleanarch.LayerInfrastructure, layers["infrastructure"])
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAllowed(t *testing.T) {
	cfg := &config{
		SharedModules:     []string{" shared "},
		AllowedViolations: []string{"cmd/vit-data", ""},
	}

	assert.True(t, cfg.allowed("cannot import between voting and shared modules"))
	assert.True(t, cfg.allowed("cmd/vit-data imports persistence"))
	assert.False(t, cfg.allowed("cannot import between voting and billing modules"))
	assert.False(t, cfg.allowed("domain imports infrastructure"))
}

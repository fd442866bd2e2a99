package draftflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BatchGroupDirect, cfg.BatchGroups.Direct)
	assert.Equal(t, BatchGroupDraft, cfg.BatchGroups.Draft)
	assert.Equal(t, 30*time.Second, cfg.Protocol.OperationTimeout)
	assert.True(t, cfg.Protocol.RequestMessagesOnPrepare)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty direct group", func(c *Config) { c.BatchGroups.Direct = "" }, "batchGroups.direct"},
		{"empty draft group", func(c *Config) { c.BatchGroups.Draft = "" }, "batchGroups.draft"},
		{"identical groups", func(c *Config) { c.BatchGroups.Draft = c.BatchGroups.Direct }, "batchGroups.draft"},
		{"zero timeout", func(c *Config) { c.Protocol.OperationTimeout = 0 }, "protocol.operationTimeout"},
		{"negative sibling depth", func(c *Config) { c.Protocol.MaxSiblingDepth = -1 }, "protocol.maxSiblingDepth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			configErr, ok := err.(*ConfigError)
			require.True(t, ok)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
batchGroups:
  direct: immediate
  draft: two-phase
protocol:
  operationTimeout: 10s
  maxSiblingDepth: 4
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "immediate", cfg.BatchGroups.Direct)
	assert.Equal(t, "two-phase", cfg.BatchGroups.Draft)
	assert.Equal(t, 10*time.Second, cfg.Protocol.OperationTimeout)
	assert.Equal(t, 4, cfg.Protocol.MaxSiblingDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep their defaults.
	assert.True(t, cfg.Protocol.RequestMessagesOnPrepare)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batchGroups: [not, a, map]"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batchGroups:\n  draft: direct\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	_, ok := err.(*ConfigError)
	assert.True(t, ok)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 7, cfg.AutoConfirmDays)
	assert.Equal(t, "test", cfg.OmiseMode)
	assert.Equal(t, 5*time.Minute, cfg.OmiseKeyCacheTTL)
	assert.True(t, cfg.PromptPayEnabled)
	assert.False(t, cfg.BankTransferMockMode)
}

func TestLoadRejectsUnknownOmiseMode(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")
	t.Setenv("OMISE_MODE", "sandbox")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresProject(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)
}

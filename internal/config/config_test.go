package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 1, cfg.MinAmount)
	assert.Equal(t, 1, cfg.MinCookingTime)
	assert.Equal(t, "name_unit", cfg.ShoppingListMerge)
	assert.Equal(t, 5*time.Minute, cfg.ShoppingListCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KAFKA_BROKERS=k1:9092, k2:9092\nMIN_AMOUNT=2\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("MIN_AMOUNT")
	})
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2, cfg.MinAmount)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("MIN_AMOUNT", "zero")

	_, err := Load(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, "MIN_AMOUNT")
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "none"))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

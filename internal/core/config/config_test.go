package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEnvFile creates a temporary .env file for the test and returns its directory.
func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644)
	require.NoError(t, err)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeEnvFile(t, "SHOPIFY_STORE_DOMAIN=test-store.myshopify.com\nSHOPIFY_ACCESS_TOKEN=shpat_test\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.Equal(t, "support@techgearsnowboards.com", cfg.Support.Email)
	assert.Equal(t, "1-800-SHRED-IT", cfg.Support.Phone)
	assert.Empty(t, cfg.Cache.RedisURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	dir := writeEnvFile(t, "SHOPIFY_STORE_DOMAIN=test-store.myshopify.com\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPIFY_ACCESS_TOKEN")
}

func TestLoad_Overrides(t *testing.T) {
	dir := writeEnvFile(t, `APP_ENV=production
LOG_LEVEL=error
SERVER_PORT=9090
SHOPIFY_STORE_DOMAIN=snow.myshopify.com
SHOPIFY_ACCESS_TOKEN=shpat_abc
SHOPIFY_API_VERSION=2025-01
REDIS_URL=redis://localhost:6379
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "snow.myshopify.com", cfg.Shopify.StoreDomain)
	assert.Equal(t, "2025-01", cfg.Shopify.APIVersion)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
}

func TestLoad_NoEnvFile(t *testing.T) {
	t.Setenv("SHOPIFY_STORE_DOMAIN", "env-store.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_env")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "env-store.myshopify.com", cfg.Shopify.StoreDomain)
}

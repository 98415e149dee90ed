package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.Debounce)
	assert.Empty(t, cfg.Metrics.Addr, "las métricas quedan apagadas por defecto")
}

func TestLoad_EnvSobrescribeDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://tienda.example.com:9000/")
	t.Setenv("API_TIMEOUT_SECONDS", "30")
	t.Setenv("UI_PAGE_SIZE", "50")
	t.Setenv("UI_DEBOUNCE_MS", "150")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://tienda.example.com:9000", cfg.API.BaseURL, "la URL base pierde la barra final")
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 50, cfg.UI.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.UI.Debounce)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestLoad_PageSizeInvalido(t *testing.T) {
	t.Setenv("UI_PAGE_SIZE", "33")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "UI_PAGE_SIZE")
}

func TestValidPageSize(t *testing.T) {
	for _, n := range PageSizes {
		assert.True(t, ValidPageSize(n), "tamaño admitido: %d", n)
	}
	assert.False(t, ValidPageSize(0))
	assert.False(t, ValidPageSize(26))
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	UI      UIConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig configuración del backend de catálogo consumido.
// BaseURL es el único lugar donde vive la URL base: los adaptadores la reciben
// inyectada, nunca como literal en el sitio de llamada.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// UIConfig comportamiento de la consola de administración.
type UIConfig struct {
	PageSize int           // 25, 50 o 100
	Debounce time.Duration // periodo de silencio antes de recargar por cambio de filtros
}

// MetricsConfig exposición opcional de métricas Prometheus.
// Addr vacío desactiva el listener.
type MetricsConfig struct {
	Addr string
}

// Valores por defecto; el backend original de referencia escucha en el 8000.
const (
	defaultBaseURL    = "http://127.0.0.1:8000"
	defaultTimeoutSec = 10
	defaultPageSize   = 25
	defaultDebounceMS = 300
)

// PageSizes tamaños de página admitidos por el listado de productos.
var PageSizes = []int{25, 50, 100}

// ValidPageSize indica si n es un tamaño de página admitido.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, UI_PAGE_SIZE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "catalogo-admin"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getString(v, "API_BASE_URL", defaultBaseURL), "/"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", defaultTimeoutSec)) * time.Second,
		},
		UI: UIConfig{
			PageSize: getInt(v, "UI_PAGE_SIZE", defaultPageSize),
			Debounce: time.Duration(getInt(v, "UI_DEBOUNCE_MS", defaultDebounceMS)) * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Addr: getString(v, "METRICS_ADDR", ""),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL no puede estar vacío")
	}
	if !ValidPageSize(cfg.UI.PageSize) {
		return nil, fmt.Errorf("UI_PAGE_SIZE inválido: %d (admitidos: 25, 50, 100)", cfg.UI.PageSize)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Filters FiltersConfig `yaml:"filters"`
	Data    DataConfig    `yaml:"data"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
type ScannerConfig struct {
	IntervalSeconds int      `yaml:"interval_seconds"`
	Tickers         []string `yaml:"tickers"` // vacío = universo S&P 100 por defecto
	Exclude         []string `yaml:"exclude"` // tickers a excluir del universo
}

// FiltersConfig ajusta los umbrales del pipeline de filtros (-edge).
type FiltersConfig struct {
	MaxSpreadPct      float64 `yaml:"max_spread_pct"`
	MinOpenInterest   float64 `yaml:"min_open_interest"`
	MinDailyVolume    float64 `yaml:"min_daily_volume"`
	MinReturn20DPct   float64 `yaml:"min_return_20d_pct"`
	IVRankMin         float64 `yaml:"iv_rank_min"`
	IVRankMax         float64 `yaml:"iv_rank_max"`
	MinDaysToEarnings int     `yaml:"min_days_to_earnings"`
}

// DataConfig contiene la configuración del proveedor de datos.
type DataConfig struct {
	BaseURL        string `yaml:"base_url"` // vacío = Yahoo Finance producción
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN     string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
	Enabled bool   `yaml:"enabled"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Un path inexistente devuelve la configuración por defecto.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// DataTimeout devuelve el timeout HTTP del proveedor de datos.
func (c *Config) DataTimeout() time.Duration {
	return time.Duration(c.Data.TimeoutSeconds) * time.Second
}

// Universe devuelve la lista final de tickers: la configurada (o el S&P 100
// por defecto) menos las exclusiones.
func (c *Config) Universe() []string {
	base := c.Scanner.Tickers
	if len(base) == 0 {
		base = SP100Tickers()
	}

	excluded := make(map[string]bool, len(c.Scanner.Exclude))
	for _, t := range c.Scanner.Exclude {
		excluded[t] = true
	}

	out := make([]string, 0, len(base))
	for _, t := range base {
		if !excluded[t] {
			out = append(out, t)
		}
	}
	return out
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("EDGESCAN_DB"); v != "" {
		cfg.Storage.DSN = v
		cfg.Storage.Enabled = true
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 900 // 15 min
	}
	if len(cfg.Scanner.Exclude) == 0 {
		cfg.Scanner.Exclude = defaultExcluded()
	}
	if cfg.Filters.MaxSpreadPct <= 0 {
		cfg.Filters.MaxSpreadPct = 0.08
	}
	if cfg.Filters.MinOpenInterest <= 0 {
		cfg.Filters.MinOpenInterest = 500
	}
	if cfg.Filters.MinDailyVolume <= 0 {
		cfg.Filters.MinDailyVolume = 200
	}
	if cfg.Filters.MinReturn20DPct <= 0 {
		cfg.Filters.MinReturn20DPct = 3.0
	}
	if cfg.Filters.IVRankMin <= 0 {
		cfg.Filters.IVRankMin = 20
	}
	if cfg.Filters.IVRankMax <= 0 {
		cfg.Filters.IVRankMax = 60
	}
	if cfg.Filters.MinDaysToEarnings <= 0 {
		cfg.Filters.MinDaysToEarnings = 10
	}
	if cfg.Data.TimeoutSeconds <= 0 {
		cfg.Data.TimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "edgescan.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

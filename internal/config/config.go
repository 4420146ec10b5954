package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Microdata MicrodataConfig `yaml:"microdata" mapstructure:"microdata"`
	Health    HealthConfig    `yaml:"health" mapstructure:"health"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// MicrodataConfig locates the fixed-width microdata extract.
type MicrodataConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HealthConfig locates the county health table and names its required
// columns. Column matching is case-insensitive against the file's header.
type HealthConfig struct {
	Path             string `yaml:"path" mapstructure:"path"`
	FIPSColumn       string `yaml:"fips_column" mapstructure:"fips_column"`
	HomicidesColumn  string `yaml:"homicides_column" mapstructure:"homicides_column"`
	PopulationColumn string `yaml:"population_column" mapstructure:"population_column"`
	Delimiter        string `yaml:"delimiter" mapstructure:"delimiter"`
}

// OutputConfig configures where the summary table goes. "-" means stdout.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CatalogConfig configures the SQLite run catalog.
type CatalogConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Disabled bool   `yaml:"disabled" mapstructure:"disabled"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, GEOSTAT_* environment
// variables, and defaults, in that precedence order.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOSTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key gets one so AutomaticEnv can bind it.
	v.SetDefault("microdata.path", "")
	v.SetDefault("health.path", "")
	v.SetDefault("health.fips_column", "5-digit FIPS Code")
	v.SetDefault("health.homicides_column", "Homicides raw value")
	v.SetDefault("health.population_column", "Population raw value")
	v.SetDefault("health.delimiter", ",")
	v.SetDefault("output.path", "-")
	v.SetDefault("catalog.path", "geostat.db")
	v.SetDefault("catalog.disabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// DelimiterRune returns the configured health-table delimiter as a rune, 0
// when unset so the reader falls back to its default.
func (h HealthConfig) DelimiterRune() rune {
	for _, r := range h.Delimiter {
		return r
	}
	return 0
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

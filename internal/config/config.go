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
	FNS      FNSConfig      `yaml:"fns" mapstructure:"fns"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// FNSConfig holds FNS registry API settings.
type FNSConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// DelayMS is the mandatory pause between per-company lookup pairs.
	DelayMS int `yaml:"delay_ms" mapstructure:"delay_ms"`
}

// PipelineConfig configures enrichment and consolidation behavior.
type PipelineConfig struct {
	MaxCompanies int    `yaml:"max_companies" mapstructure:"max_companies"`
	MinRevenue   int64  `yaml:"min_revenue" mapstructure:"min_revenue"`
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`
}

// PathsConfig holds default artifact locations.
type PathsConfig struct {
	Raw     string `yaml:"raw" mapstructure:"raw"`
	Interim string `yaml:"interim" mapstructure:"interim"`
	Final   string `yaml:"final" mapstructure:"final"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the inspection server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still need registering so
	// AutomaticEnv can override them through Unmarshal.
	v.SetDefault("fns.key", "")
	v.SetDefault("fns.base_url", "https://api-fns.ru")
	v.SetDefault("fns.timeout_secs", 30)
	v.SetDefault("fns.delay_ms", 1200)
	v.SetDefault("pipeline.max_companies", 50)
	v.SetDefault("pipeline.min_revenue", 200_000_000)
	v.SetDefault("pipeline.encoding", "")
	v.SetDefault("paths.raw", "data/raw/raw_companies.csv")
	v.SetDefault("paths.interim", "data/interim/enriched_data.csv")
	v.SetDefault("paths.final", "data/companies.csv")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "enrich.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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

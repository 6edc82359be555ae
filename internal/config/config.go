// Package config loads application configuration from file and environment
// and owns the global logger setup.
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
	Index    IndexConfig    `yaml:"index" mapstructure:"index"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Loader   LoaderConfig   `yaml:"loader" mapstructure:"loader"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// IndexConfig configures the composite index calculator. Weights override
// the built-in table; when set they must sum to 1.0.
type IndexConfig struct {
	Weights map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// MetricsConfig configures deprivation metrics and budget estimation.
type MetricsConfig struct {
	HouseholdSize float64            `yaml:"household_size" mapstructure:"household_size"`
	UnitCosts     map[string]float64 `yaml:"unit_costs" mapstructure:"unit_costs"`
}

// GenerateConfig configures the synthetic dataset generator.
type GenerateConfig struct {
	Seed    int64 `yaml:"seed" mapstructure:"seed"`
	Periods []int `yaml:"periods" mapstructure:"periods"`
}

// LoaderConfig configures external source loading.
type LoaderConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec     float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	AliasFile      string  `yaml:"alias_file" mapstructure:"alias_file"`
	MaxConcurrency int     `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	PortalBaseURL  string  `yaml:"portal_base_url" mapstructure:"portal_base_url"`
	DatabaseURL    string  `yaml:"database_url" mapstructure:"database_url"`
}

// AnalysisConfig holds analysis defaults.
type AnalysisConfig struct {
	PriorityThreshold float64 `yaml:"priority_threshold" mapstructure:"priority_threshold"`
	TopN              int     `yaml:"top_n" mapstructure:"top_n"`
}

// ServerConfig configures the API server.
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
	v.SetEnvPrefix("AMENITIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.household_size", 5.0)
	v.SetDefault("metrics.unit_costs", map[string]float64{
		"water":       15000,
		"toilet":      12000,
		"housing":     120000,
		"electricity": 5000,
	})
	v.SetDefault("generate.seed", 42)
	v.SetDefault("generate.periods", []int{2012, 2018, 2023})
	v.SetDefault("loader.timeout_secs", 60)
	v.SetDefault("loader.max_retries", 2)
	v.SetDefault("loader.rate_per_sec", 5.0)
	v.SetDefault("loader.max_concurrency", 4)
	v.SetDefault("loader.portal_base_url", "https://api.data.gov.in/resource")
	v.SetDefault("analysis.priority_threshold", 0.5)
	v.SetDefault("analysis.top_n", 10)

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

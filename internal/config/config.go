// Package config loads application configuration and initializes the
// global logger.
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
	Schema  SchemaConfig  `yaml:"schema" mapstructure:"schema"`
	Mapping MappingConfig `yaml:"mapping" mapstructure:"mapping"`
	Readers ReadersConfig `yaml:"readers" mapstructure:"readers"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SchemaConfig configures the authoritative schema source. An empty
// path selects the embedded schema. Strict flips additionalProperties
// enforcement uniformly.
type SchemaConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Strict bool   `yaml:"strict" mapstructure:"strict"`
}

// MappingConfig configures the field-mapping table.
type MappingConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// ReadersConfig configures tabular input reading.
type ReadersConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text or json
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
	v.SetEnvPrefix("NEPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("schema.strict", false)
	v.SetDefault("readers.concurrency", 4)
	v.SetDefault("output.format", "text")
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

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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Clean    CleanConfig    `yaml:"clean" mapstructure:"clean"`
	Stimulus StimulusConfig `yaml:"stimulus" mapstructure:"stimulus"`
	QC       QCConfig       `yaml:"qc" mapstructure:"qc"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CleanConfig configures the raw catalog cleaning stage.
type CleanConfig struct {
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"`
	Workers   int `yaml:"workers" mapstructure:"workers"`
}

// StimulusConfig configures the stimulus-set builder.
type StimulusConfig struct {
	Seed           int64  `yaml:"seed" mapstructure:"seed"`
	TargetPerCombo int    `yaml:"target_per_combo" mapstructure:"target_per_combo"`
	SalienceSplit  string `yaml:"salience_split" mapstructure:"salience_split"`
	OverridesFile  string `yaml:"overrides_file" mapstructure:"overrides_file"`
}

// PerCell returns the number of records sampled per two-factor cell, which
// the salience split later halves into low/high.
func (c StimulusConfig) PerCell() int {
	return 2 * c.TargetPerCombo
}

// QCConfig configures the standalone stimulus-table QC pass.
type QCConfig struct {
	ExpectedItems int `yaml:"expected_items" mapstructure:"expected_items"`
	MaxNameDups   int `yaml:"max_name_dups" mapstructure:"max_name_dups"`
}

// ServerConfig configures the read-only inspection server.
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
	v.SetEnvPrefix("STIMULI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "stimuli.db")
	v.SetDefault("clean.chunk_size", 200_000)
	v.SetDefault("clean.workers", 4)
	v.SetDefault("stimulus.seed", 637)
	v.SetDefault("stimulus.target_per_combo", 20)
	v.SetDefault("stimulus.salience_split", "random")
	v.SetDefault("qc.expected_items", 160)
	v.SetDefault("qc.max_name_dups", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	if cfg.Stimulus.SalienceSplit != "random" && cfg.Stimulus.SalienceSplit != "ordered" {
		return nil, eris.Errorf("config: invalid stimulus.salience_split %q (want random or ordered)", cfg.Stimulus.SalienceSplit)
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

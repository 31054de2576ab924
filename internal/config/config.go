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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Season    int             `yaml:"season" mapstructure:"season"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Stats     StatsConfig     `yaml:"stats" mapstructure:"stats"`
	Sheet     SheetConfig     `yaml:"sheet" mapstructure:"sheet"`
	Mine      MineConfig      `yaml:"mine" mapstructure:"mine"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	Model        string `yaml:"model" mapstructure:"model"`
	MaxBatchSize int    `yaml:"max_batch_size" mapstructure:"max_batch_size"`
}

// StatsConfig configures the statistics service sync.
type StatsConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	DelayMillis int    `yaml:"delay_millis" mapstructure:"delay_millis"`
}

// SheetConfig configures the scouting form spreadsheet.
type SheetConfig struct {
	Key              string            `yaml:"key" mapstructure:"key"`
	SpreadsheetID    string            `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Range            string            `yaml:"range" mapstructure:"range"`
	PollIntervalSecs int               `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	Columns          map[string]string `yaml:"columns" mapstructure:"columns"`
}

// MineConfig describes our own robot for analysis prompts.
type MineConfig struct {
	Number string `yaml:"number" mapstructure:"number"`
	Name   string `yaml:"name" mapstructure:"name"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so the env override is always bound.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("sheet.key", "")
	v.SetDefault("sheet.spreadsheet_id", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("mine.number", "")
	v.SetDefault("mine.name", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "scout.db")
	v.SetDefault("season", 2026)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_batch_size", 8)
	v.SetDefault("stats.base_url", "https://api.ftcscout.org/graphql")
	v.SetDefault("stats.delay_millis", 125)
	v.SetDefault("sheet.range", "Form Responses 1!A:Z")
	v.SetDefault("sheet.poll_interval_secs", 15)

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

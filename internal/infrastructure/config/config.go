package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Recognized fields are
// enumerated here; the scheduling core itself takes no configuration beyond
// deck and grading inputs.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig selects the storage driver. sqlite is the default; postgres
// is available for shared setups.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"` // sqlite file path
	DSN    string `mapstructure:"dsn"`  // postgres connection string
}

// QuizConfig tunes session building.
type QuizConfig struct {
	SessionSize      int           `mapstructure:"session_size"`
	GeneratorTimeout time.Duration `mapstructure:"generator_timeout"`
}

// OpenAIConfig configures the external distractor generator. An empty API
// key disables the generator; the pipeline then runs fallback-only.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("vocdrill")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/vocdrill")

	setDefaults()

	viper.SetEnvPrefix("vocdrill")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "data/vocdrill.db")
	viper.SetDefault("database.dsn", "")

	viper.SetDefault("quiz.session_size", 20)
	viper.SetDefault("quiz.generator_timeout", 5*time.Second)

	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-4o-mini")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// DatabaseDriver returns the sql driver name for the configured backend.
func (c *Config) DatabaseDriver() (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
}

// DatabaseURL returns the DSN for the configured backend.
func (c *Config) DatabaseURL() (string, error) {
	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}
	if driver == "postgres" {
		if c.Database.DSN == "" {
			return "", fmt.Errorf("database.dsn is required for postgres")
		}
		return c.Database.DSN, nil
	}
	if c.Database.Path == "" {
		return "", fmt.Errorf("database.path is required for sqlite")
	}
	return c.Database.Path, nil
}

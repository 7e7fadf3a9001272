package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Events   EventsConfig   `mapstructure:"events"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// LLMConfig holds the generation defaults and per-vendor endpoints.
// Timeout values are in seconds, BaseDelayMS in milliseconds.
type LLMConfig struct {
	RequestTimeout     int          `mapstructure:"request_timeout"`
	MaxAttempts        int          `mapstructure:"max_attempts"`
	BaseDelayMS        int          `mapstructure:"base_delay_ms"`
	DefaultTemperature float64      `mapstructure:"default_temperature"`
	DefaultMaxTokens   int          `mapstructure:"default_max_tokens"`
	DefaultVendor      string       `mapstructure:"default_vendor"`
	HuggingFace        VendorConfig `mapstructure:"huggingface"`
	OpenRouter         VendorConfig `mapstructure:"openrouter"`
	Gemini             VendorConfig `mapstructure:"gemini"`
}

// VendorConfig overrides the built-in endpoint and default model of one vendor.
type VendorConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ChatBaseURL  string `mapstructure:"chat_base_url"`
	DefaultModel string `mapstructure:"default_model"`
	Referer      string `mapstructure:"referer"`
	Title        string `mapstructure:"title"`
}

// Timeout returns the per-call vendor timeout
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// BaseDelay returns the retry base delay
func (c LLMConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

type EventsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SeedConfig struct {
	Providers bool `mapstructure:"providers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values the generation pipeline cannot work with
func (c *Config) Validate() error {
	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1, got %d", c.LLM.MaxAttempts)
	}
	if c.LLM.RequestTimeout < 1 {
		return fmt.Errorf("llm.request_timeout must be at least 1 second, got %d", c.LLM.RequestTimeout)
	}
	if c.LLM.BaseDelayMS < 0 {
		return fmt.Errorf("llm.base_delay_ms must not be negative, got %d", c.LLM.BaseDelayMS)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 120)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "todoai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("llm.request_timeout", 30)
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.base_delay_ms", 1000)
	v.SetDefault("llm.default_temperature", 0.7)
	v.SetDefault("llm.default_max_tokens", 1000)
	v.SetDefault("llm.default_vendor", "huggingface")

	v.SetDefault("llm.huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("llm.huggingface.chat_base_url", "https://router.huggingface.co/v1")
	v.SetDefault("llm.huggingface.default_model", "")
	v.SetDefault("llm.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.openrouter.default_model", "")
	v.SetDefault("llm.openrouter.referer", "http://localhost:3001")
	v.SetDefault("llm.openrouter.title", "AI Todo App")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.gemini.default_model", "")

	v.SetDefault("events.enabled", true)
	v.SetDefault("seed.providers", true)
}

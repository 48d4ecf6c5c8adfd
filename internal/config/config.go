// Package config loads application configuration from defaults, an optional
// YAML file, environment variables, and a local .env file. All settings are
// carried in an explicit Config struct passed into constructors; nothing
// reads the environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	AI       AI       `mapstructure:"ai"`
	Pipeline Pipeline `mapstructure:"pipeline"`
	Server   Server   `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds the enrichment collaborator configuration. The endpoint is
// OpenAI-compatible; BaseURL selects the provider.
type AI struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           string  `mapstructure:"timeout"`
	MaxRetries        int     `mapstructure:"max_retries"`
	RetryBackoff      string  `mapstructure:"retry_backoff"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Pipeline holds batch processing configuration
type Pipeline struct {
	MinTextChars   int  `mapstructure:"min_text_chars"`
	MaxPromptChars int  `mapstructure:"max_prompt_chars"`
	Workers        int  `mapstructure:"workers"`
	StrictParse    bool `mapstructure:"strict_parse"`
}

// Server holds HTTP service configuration
type Server struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	APIKey         string `mapstructure:"api_key"`
	ReadTimeout    string `mapstructure:"read_timeout"`
	WriteTimeout   string `mapstructure:"write_timeout"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// GetTimeout parses the AI timeout, defaulting to 60s.
func (a AI) GetTimeout() time.Duration {
	return parseDuration(a.Timeout, 60*time.Second)
}

// GetRetryBackoff parses the retry backoff, defaulting to 800ms.
func (a AI) GetRetryBackoff() time.Duration {
	return parseDuration(a.RetryBackoff, 800*time.Millisecond)
}

// GetReadTimeout parses the server read timeout, defaulting to 30s.
func (s Server) GetReadTimeout() time.Duration {
	return parseDuration(s.ReadTimeout, 30*time.Second)
}

// GetWriteTimeout parses the server write timeout, defaulting to 120s.
func (s Server) GetWriteTimeout() time.Duration {
	return parseDuration(s.WriteTimeout, 120*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Load reads configuration into a Config. Precedence, lowest to highest:
// built-in defaults, the optional config file, environment variables
// (NEWSPIPE_* plus the legacy GROQ_*/MODEL/DEBUG names), values from a
// local .env file already exported into the environment.
func Load(cfgFile string) (*Config, error) {
	// Best-effort .env load; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NEWSPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(".newspipe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// Optional when not named explicitly.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	bindLegacyEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ai.model", "llama-3.1-8b-instant")
	v.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.retry_backoff", "800ms")
	v.SetDefault("ai.requests_per_second", 2.0)

	v.SetDefault("pipeline.min_text_chars", 50)
	v.SetDefault("pipeline.max_prompt_chars", 7000)
	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.strict_parse", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.max_upload_bytes", int64(32<<20))
}

// bindLegacyEnv maps the environment names used by earlier deployments onto
// their config keys so existing .env files keep working. The names are bound
// at normal env precedence, so an explicit NEWSPIPE_* variable still wins
// over a legacy name.
func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		"ai.api_key":              "GROQ_API_KEY",
		"ai.model":                "MODEL",
		"ai.base_url":             "GROQ_BASE_URL",
		"app.debug":               "DEBUG",
		"pipeline.min_text_chars": "MIN_TEXT_CHARS",
		"server.api_key":          "AI_API_KEY",
	}
	for key, env := range legacy {
		_ = v.BindEnv(key, env)
	}
}

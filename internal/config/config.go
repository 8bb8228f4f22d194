// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged
// in priority order. Configuration is loaded into structs, not accessed as
// raw key-value pairs.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related
// settings. `mapstructure` tags tell Viper how to map YAML/env keys to
// struct fields.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Image       ImageConfig       `mapstructure:"image"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// BaseURL is the externally visible address, used to build absolute
	// links to generated images. Empty means relative URLs.
	BaseURL string `mapstructure:"base_url"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	ImageDir     string `mapstructure:"image_dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GenerationConfig drives the text-generation providers.
type GenerationConfig struct {
	// ProviderOrder controls which providers are used and in what order.
	// First is primary, rest are fallbacks. Example: ["anthropic", "openai"]
	ProviderOrder  []string        `mapstructure:"provider_order"`
	Anthropic      AnthropicConfig `mapstructure:"anthropic"`
	OpenAI         OpenAIConfig    `mapstructure:"openai"`
	RatePerMinute  int             `mapstructure:"rate_per_minute"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ImageConfig drives the image-generation providers.
type ImageConfig struct {
	ProviderOrder  []string          `mapstructure:"provider_order"`
	HuggingFace    HuggingFaceConfig `mapstructure:"huggingface"`
	OpenAI         OpenAIConfig      `mapstructure:"openai"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
}

type HuggingFaceConfig struct {
	APIToken string `mapstructure:"api_token"`
	Model    string `mapstructure:"model"`
}

type LeaderboardConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults — these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "")
	v.SetDefault("storage.database_path", "./data/brand-mixer.db")
	v.SetDefault("storage.image_dir", "./data/images")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("generation.provider_order", []string{"anthropic", "openai"})
	v.SetDefault("generation.anthropic.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("generation.openai.model", "gpt-4o")
	v.SetDefault("generation.rate_per_minute", 10)
	v.SetDefault("generation.timeout_seconds", 30)
	v.SetDefault("image.provider_order", []string{"huggingface", "openai"})
	v.SetDefault("image.huggingface.model", "stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("image.timeout_seconds", 120)
	v.SetDefault("leaderboard.default_limit", 10)
	v.SetDefault("leaderboard.max_limit", 50)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// MIXER_ prefix + nested keys: MIXER_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("MIXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

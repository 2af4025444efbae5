package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultGeminiModel   = "gemini-2.5-flash-preview-tts"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiVoice   = "Kore"
	DefaultGoogleVoice   = "en-US-Chirp3-HD-Kore"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Tts    TtsConfig    `mapstructure:"tts"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Google GoogleConfig `mapstructure:"google"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RequestTimeout int      `mapstructure:"request_timeout"` // seconds
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Backend selection
type TtsConfig struct {
	Type         string `mapstructure:"type"` // "gemini", "google" or "dummy"
	Enabled      bool   `mapstructure:"enabled"`
	DefaultVoice string `mapstructure:"default_voice"` // Optional, overrides the provider's default voice
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	BaseURL      string `mapstructure:"base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
	DefaultVoice string `mapstructure:"default_voice"`
}

// Google Cloud Text-to-Speech
type GoogleConfig struct {
	APIKey          string `mapstructure:"api_key"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"` // Optional, defaults to the public endpoint
	DefaultVoice    string `mapstructure:"default_voice"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:8080"})
	v.SetDefault("server.request_timeout", 30)

	v.SetDefault("log.level", "info")

	v.SetDefault("tts.enabled", true)
	v.SetDefault("tts.type", "gemini")
	v.SetDefault("tts.default_voice", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.base_url", DefaultGeminiBaseURL)
	v.SetDefault("gemini.timeout", 60)
	v.SetDefault("gemini.default_voice", DefaultGeminiVoice)

	v.SetDefault("google.api_key", "")
	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.endpoint", "")
	v.SetDefault("google.default_voice", DefaultGoogleVoice)
}

// Load reads config.yaml (and config.local.yaml overrides) from "." or "./config",
// then layers GOFIGURE_* environment variables on top. A missing file is not an error.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.BindEnv("gemini.api_key", "GOFIGURE_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	v.BindEnv("google.api_key", "GOFIGURE_GOOGLE_API_KEY", "GOOGLE_API_KEY")
	v.BindEnv("google.credentials_file", "GOFIGURE_GOOGLE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	v.BindEnv("server.port", "GOFIGURE_SERVER_PORT", "PORT")

	v.SetEnvPrefix("GOFIGURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Config file not found, use defaults
	}

	v.SetConfigName("config.local")
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

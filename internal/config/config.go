package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	History HistoryConfig `mapstructure:"history"`
	Vision  VisionConfig  `mapstructure:"vision"`
	Caption CaptionConfig `mapstructure:"caption"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// VisionConfig configures the streaming image-description service.
type VisionConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CaptionConfig configures the text-generation service. APIKey is required
// for caption generation; its absence is reported as a configuration error.
type CaptionConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("history.path", "./data/history.json")
	v.SetDefault("vision.base_url", "http://localhost:11434")
	v.SetDefault("vision.model", "llava:7b")
	v.SetDefault("vision.timeout_seconds", 60)
	v.SetDefault("caption.base_url", "https://router.huggingface.co/v1")
	v.SetDefault("caption.model", "openai/gpt-oss-120b:together")
	v.SetDefault("caption.timeout_seconds", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("caption.api_key", "HF_TOKEN")
	v.BindEnv("caption.model", "HF_GPT_OSS_MODEL")
	v.BindEnv("caption.base_url", "HF_ROUTER_URL")
	v.BindEnv("vision.base_url", "OLLAMA_BASE_URL")
	v.BindEnv("vision.model", "VISION_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

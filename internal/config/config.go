// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type QueueConfig struct {
	Stream        string        `yaml:"stream"`
	Group         string        `yaml:"group"`
	Consumer      string        `yaml:"consumer"`
	Workers       int           `yaml:"workers"`
	BatchSize     int           `yaml:"batch_size"`
	Block         time.Duration `yaml:"block"`
	ReclaimIdle   time.Duration `yaml:"reclaim_idle"`
}

type TranslatorConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	Model           string `yaml:"model"`
	DefaultLanguage string `yaml:"default_language"`
	MaxInputTokens  int    `yaml:"max_input_tokens"`
}

type NotifyConfig struct {
	TelegramToken string `yaml:"telegram_token"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	API        APIConfig        `yaml:"api"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Queue      QueueConfig      `yaml:"queue"`
	Translator TranslatorConfig `yaml:"translator"`
	Notify     NotifyConfig     `yaml:"notify"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Port <= 0 {
		cfg.API.Port = 8080
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Queue.Stream == "" {
		cfg.Queue.Stream = "translation:jobs"
	}
	if cfg.Queue.Group == "" {
		cfg.Queue.Group = "translators"
	}
	if cfg.Queue.Consumer == "" {
		host, _ := os.Hostname()
		if host == "" {
			host = "worker-1"
		}
		cfg.Queue.Consumer = host
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 4
	}
	if cfg.Queue.BatchSize <= 0 {
		cfg.Queue.BatchSize = 16
	}
	if cfg.Queue.Block <= 0 {
		cfg.Queue.Block = 5 * time.Second
	}
	if cfg.Queue.ReclaimIdle <= 0 {
		cfg.Queue.ReclaimIdle = time.Minute
	}
	if cfg.Translator.Model == "" {
		cfg.Translator.Model = "gpt-4o-mini"
	}
	if cfg.Translator.DefaultLanguage == "" {
		cfg.Translator.DefaultLanguage = "en"
	}
	if cfg.Translator.MaxInputTokens <= 0 {
		cfg.Translator.MaxInputTokens = 8192
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.API.JWTSecret == "" && !dev {
		return nil, errors.New("api.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
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

type AdminConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	// Operators allowed to confirm or reject payments. Empty means any
	// authenticated operator.
	OperatorIDs []string      `yaml:"operator_ids"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	// Messages per second across all chats; Telegram throttles around 30.
	RatePerSecond float64 `yaml:"rate_per_second"`
}

type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type WhatsAppConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Email    EmailConfig    `yaml:"email"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	// In-app delivery rides on redis pub/sub and needs no extra settings.
}

type WorkerConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	DispatchWindow time.Duration `yaml:"dispatch_window"` // per-channel send timeout
	DedupeTTL      time.Duration `yaml:"dedupe_ttl"`
}

type BillingConfig struct {
	PendingTTL     time.Duration `yaml:"pending_ttl"`     // how long a pending transaction may await review
	ExpirySweep    time.Duration `yaml:"expiry_sweep"`    // interval between expiry passes
	ExpiryBatchMax int           `yaml:"expiry_batch_max"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Channels ChannelsConfig `yaml:"channels"`
	Worker   WorkerConfig   `yaml:"worker"`
	Billing  BillingConfig  `yaml:"billing"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Admin.JWTSecret == "" {
		return nil, errors.New("admin.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8081
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 8
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Channels.Telegram.RatePerSecond <= 0 {
		cfg.Channels.Telegram.RatePerSecond = 25
	}
	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = 8
	}
	if cfg.Worker.DispatchWindow <= 0 {
		cfg.Worker.DispatchWindow = 10 * time.Second
	}
	if cfg.Worker.DedupeTTL <= 0 {
		cfg.Worker.DedupeTTL = 24 * time.Hour
	}
	if cfg.Billing.PendingTTL <= 0 {
		cfg.Billing.PendingTTL = 48 * time.Hour
	}
	if cfg.Billing.ExpirySweep <= 0 {
		cfg.Billing.ExpirySweep = 5 * time.Minute
	}
	if cfg.Billing.ExpiryBatchMax <= 0 {
		cfg.Billing.ExpiryBatchMax = 100
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

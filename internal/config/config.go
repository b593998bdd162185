package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go-vertx/internal/logging"
	"go-vertx/nodes"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "vertx.yaml"

type Config struct {
	Addr             string `yaml:"addr" env:"VERTX_ADDR"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms" env:"VERTX_REQUEST_TIMEOUT_MS"`
	HotReload        bool   `yaml:"hot_reload" env:"VERTX_HOT_RELOAD"`
	LogLevel         string `yaml:"log_level" env:"VERTX_LOG_LEVEL"`
	CORSOrigin       string `yaml:"cors_origin" env:"VERTX_CORS_ORIGIN"`

	// never read from the file
	JWTSecret string `yaml:"-" env:"VERTX_JWT_SECRET"`

	Static []nodes.StaticRule `yaml:"static"`
}

// Default returns sane defaults used when vertx.yaml is missing or invalid.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		RequestTimeoutMs: 10000, // 10s
		HotReload:        false,
		LogLevel:         "info",
		CORSOrigin:       "",
		Static: []nodes.StaticRule{
			{Prefix: "/assets/", Dir: "public/assets"},
			{Prefix: "/css/", Dir: "public/css"},
			{Prefix: "/js/", Dir: "public/js"},
			{Prefix: "/images/", Dir: "public/images"},
		},
	}
}

// Load reads path, falling back to defaults for a missing or unparsable file
// and for each invalid field, then applies VERTX_* environment overrides.
// Only a bad environment override is an error.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	cfg := fromFile(path, logger)
	validate(cfg, logger)

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func fromFile(path string, logger *slog.Logger) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no config file found, using defaults", "path", path)
		} else {
			logger.Warn("config file unreadable, using defaults", "path", path, "error", err)
		}
		return Default()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("invalid config file, using defaults", "path", path, "error", err)
		return Default()
	}
	return &cfg
}

func validate(cfg *Config, logger *slog.Logger) {
	def := Default()

	if cfg.Addr == "" {
		logger.Warn("addr missing, falling back", "default", def.Addr)
		cfg.Addr = def.Addr
	}

	if cfg.RequestTimeoutMs <= 0 {
		logger.Warn("request_timeout_ms is invalid, falling back", "value", cfg.RequestTimeoutMs, "default", def.RequestTimeoutMs)
		cfg.RequestTimeoutMs = def.RequestTimeoutMs
	}

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		logger.Warn("log_level is invalid, falling back", "value", cfg.LogLevel, "default", def.LogLevel)
		cfg.LogLevel = def.LogLevel
	}

	if len(cfg.Static) == 0 {
		logger.Info("no static rules configured, using default static rules")
		cfg.Static = def.Static
		return
	}
	for i, rule := range cfg.Static {
		if !strings.HasPrefix(rule.Prefix, "/") {
			logger.Warn("static prefix does not start with '/', fixing", "index", i, "prefix", rule.Prefix)
			cfg.Static[i].Prefix = "/" + rule.Prefix
		}
		if rule.Dir == "" {
			logger.Warn("static dir is empty, this rule will be ignored at runtime", "index", i)
		}
	}
}

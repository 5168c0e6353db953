package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all cardio configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Audit   AuditConfig   `yaml:"audit"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Mode            string        `yaml:"mode"` // gin mode: "release", "debug", "test"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig locates the model artifacts.
type EngineConfig struct {
	ModelPath   string `yaml:"model_path"`
	ScalerPath  string `yaml:"scaler_path"`
	RuntimePath string `yaml:"runtime_path"` // ONNX Runtime shared library
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// AuditConfig selects where assessment records go. Sinks is a list of
// "stdout" and/or file paths; empty disables auditing.
type AuditConfig struct {
	Sinks         []string `yaml:"sinks"`
	Pretty        bool     `yaml:"pretty"`
	IncludeInputs bool     `yaml:"include_inputs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Engine: EngineConfig{
			ModelPath:  "models/model.onnx",
			ScalerPath: "models/scaler.onnx",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CARDIO_CONFIG (if set and present), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CARDIO_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getenv("CARDIO_ADDR", cfg.Server.Addr)
	cfg.Server.Mode = getenv("CARDIO_GIN_MODE", cfg.Server.Mode)
	cfg.Server.ShutdownTimeout = getenvDuration("CARDIO_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Engine.ModelPath = getenv("CARDIO_MODEL_PATH", cfg.Engine.ModelPath)
	cfg.Engine.ScalerPath = getenv("CARDIO_SCALER_PATH", cfg.Engine.ScalerPath)
	cfg.Engine.RuntimePath = getenv("CARDIO_ORT_LIB", cfg.Engine.RuntimePath)

	cfg.Logging.Level = getenv("CARDIO_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.JSON = getenvBool("CARDIO_LOG_JSON", cfg.Logging.JSON)

	if v := os.Getenv("CARDIO_AUDIT"); v != "" {
		cfg.Audit.Sinks = parseSinks(v)
	}
	cfg.Audit.Pretty = getenvBool("CARDIO_AUDIT_PRETTY", cfg.Audit.Pretty)
	cfg.Audit.IncludeInputs = getenvBool("CARDIO_AUDIT_INPUTS", cfg.Audit.IncludeInputs)
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server address is empty")
	}
	if c.Engine.ModelPath == "" {
		return errors.New("config: model path is empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

// parseSinks splits a comma-separated sink list. "none" disables auditing.
func parseSinks(s string) []string {
	var sinks []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "none") {
			continue
		}
		sinks = append(sinks, part)
	}
	return sinks
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

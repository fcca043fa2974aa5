package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/kuesioner/internal/utils"
)

const (
	DefaultDataPath = "data_kuesioner.xlsx"
	DefaultAddr     = ":8080"
	DefaultTokenTTL = 24 * time.Hour
)

// Config is read from an optional YAML file and then overridden by
// KUESIONER_* environment variables.
type Config struct {
	DataPath string   `yaml:"data"`
	Sheet    string   `yaml:"sheet"`
	Expected []string `yaml:"questions"`

	DBPath        string `yaml:"db_path"`
	MigrationsDir string `yaml:"migrations_dir"`

	Addr              string        `yaml:"addr"`
	JWTSecret         string        `yaml:"jwt_secret"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	TokenTTL          time.Duration `yaml:"token_ttl"`

	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DataPath: DefaultDataPath,
		Addr:     DefaultAddr,
		TokenTTL: DefaultTokenTTL,
	}
}

// Load reads path (if non-empty) over the defaults and applies the
// environment. A missing file named explicitly is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.DataPath = utils.SafeEnv("KUESIONER_DATA", c.DataPath)
	c.Sheet = utils.SafeEnv("KUESIONER_SHEET", c.Sheet)
	c.DBPath = utils.SafeEnv("KUESIONER_DB_PATH", c.DBPath)
	c.MigrationsDir = utils.SafeEnv("KUESIONER_MIGRATIONS_DIR", c.MigrationsDir)
	c.Addr = utils.SafeEnv("KUESIONER_ADDR", c.Addr)
	c.JWTSecret = utils.SafeEnv("KUESIONER_JWT_SECRET", c.JWTSecret)
	c.AdminPasswordHash = utils.SafeEnv("KUESIONER_ADMIN_PASSWORD_HASH", c.AdminPasswordHash)
	c.LogLevel = utils.SafeEnv("KUESIONER_LOG_LEVEL", c.LogLevel)
	if qs := utils.EnvList("KUESIONER_QUESTIONS"); len(qs) > 0 {
		c.Expected = qs
	}
	if ttl := utils.SafeEnv("KUESIONER_TOKEN_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("KUESIONER_TOKEN_TTL: %w", err)
		}
		c.TokenTTL = d
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("data path is required")
	}
	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return errors.New("admin_password_hash requires jwt_secret")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	return nil
}

// AuthEnabled reports whether the HTTP API requires a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.AdminPasswordHash != ""
}

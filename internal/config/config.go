// Package config loads server settings from a YAML file, an optional .env file
// and PERSONA_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/Persona/internal/utils"
)

const DefaultPath = "persona.yaml"

// DevSecret is used when no jwt secret is configured. Validate warns about it.
const DevSecret = "persona-dev-secret"

type Config struct {
	Server struct {
		Addr           string `yaml:"addr"`
		BaseURL        string `yaml:"base_url"`
		StaticDir      string `yaml:"static_dir"`
		DevFrontendURL string `yaml:"dev_frontend_url"`
		Commit         string `yaml:"commit"`
		BuildTime      string `yaml:"build_time"`
	} `yaml:"server"`
	Storage struct {
		Driver        string `yaml:"driver"`
		Path          string `yaml:"path"`
		DSN           string `yaml:"dsn"`
		MigrationsDir string `yaml:"migrations_dir"`
	} `yaml:"storage"`
	Bank struct {
		Dir string `yaml:"dir"`
	} `yaml:"bank"`
	Auth struct {
		JWTSecret         string        `yaml:"jwt_secret"`
		AdminPasswordHash string        `yaml:"admin_password_hash"`
		TokenTTL          time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Share struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"share"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	c := &Config{}
	c.Server.Addr = ":8080"
	c.Server.BaseURL = "http://localhost:8080"
	c.Storage.Driver = "bolt"
	c.Storage.Path = "data/persona.db"
	c.Auth.JWTSecret = DevSecret
	c.Auth.TokenTTL = 12 * time.Hour
	c.Share.TTL = 30 * 24 * time.Hour
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	return c
}

// Load reads path, then .env, then the environment. Only the implicit
// persona.yaml may be missing; a file named by the caller or PERSONA_CONFIG
// must exist.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		path = utils.SafeEnv("PERSONA_CONFIG", "")
	}
	implicit := path == ""
	if implicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && implicit:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// .env never overrides variables already set in the process
	_ = godotenv.Load()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = utils.SafeEnv("PERSONA_ADDR", c.Server.Addr)
	c.Server.BaseURL = utils.SafeEnv("PERSONA_BASE_URL", c.Server.BaseURL)
	c.Server.StaticDir = utils.SafeEnv("PERSONA_STATIC_DIR", c.Server.StaticDir)
	c.Server.DevFrontendURL = utils.SafeEnv("PERSONA_DEV_FRONTEND_URL", c.Server.DevFrontendURL)
	c.Server.Commit = utils.SafeEnv("PERSONA_COMMIT", c.Server.Commit)
	c.Server.BuildTime = utils.SafeEnv("PERSONA_BUILD_TIME", c.Server.BuildTime)

	c.Storage.Driver = utils.SafeEnv("PERSONA_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = utils.SafeEnv("PERSONA_DB_PATH", c.Storage.Path)
	c.Storage.DSN = utils.SafeEnv("PERSONA_DB_DSN", c.Storage.DSN)
	c.Storage.MigrationsDir = utils.SafeEnv("PERSONA_MIGRATIONS_DIR", c.Storage.MigrationsDir)

	c.Bank.Dir = utils.SafeEnv("PERSONA_BANK_DIR", c.Bank.Dir)

	c.Auth.JWTSecret = utils.SafeEnv("PERSONA_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AdminPasswordHash = utils.SafeEnv("PERSONA_ADMIN_PASSWORD_HASH", c.Auth.AdminPasswordHash)
	c.Auth.TokenTTL = utils.EnvDuration("PERSONA_TOKEN_TTL", c.Auth.TokenTTL)
	c.Share.TTL = utils.EnvDuration("PERSONA_SHARE_TTL", c.Share.TTL)

	c.Logging.Level = utils.SafeEnv("PERSONA_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = utils.SafeEnv("PERSONA_LOG_FORMAT", c.Logging.Format)
}

var drivers = map[string]bool{"bolt": true, "sqlite": true, "postgres": true, "memory": true}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if !drivers[c.Storage.Driver] {
		errs = append(errs, fmt.Errorf("storage.driver %q must be one of bolt, sqlite, postgres, memory", c.Storage.Driver))
	}
	switch c.Storage.Driver {
	case "bolt", "sqlite":
		if strings.TrimSpace(c.Storage.Path) == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for %s", c.Storage.Driver))
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	}
	// the dev secret is public, so admin tokens signed with it could be forged
	if strings.TrimSpace(c.Auth.AdminPasswordHash) != "" && c.UsesDevSecret() {
		errs = append(errs, errors.New("auth.jwt_secret must be set when auth.admin_password_hash is"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Share.TTL <= 0 {
		errs = append(errs, errors.New("share.ttl must be positive"))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	return errors.Join(errs...)
}

// UsesDevSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsesDevSecret() bool { return c.Auth.JWTSecret == DevSecret }

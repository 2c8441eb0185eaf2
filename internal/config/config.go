package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string     `yaml:"listen_addr"`
	BaseURL    string     `yaml:"base_url"`
	DB         DBConfig   `yaml:"db"`
	Auth       AuthConfig `yaml:"auth"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	DevToken    string `yaml:"dev_token"`
	DevTokenUID string `yaml:"dev_token_uid"`
}

func Load(path string) (Config, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	switch c.DB.Driver {
	case "", "memory":
	case "sqlite":
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn is required when db.driver is sqlite")
		}
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}

	if c.Auth.JWTSecret == "" && c.Auth.DevToken == "" {
		return fmt.Errorf("auth requires jwt_secret or dev_token")
	}

	return nil
}

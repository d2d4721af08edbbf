// Package config loads connection and ingestion settings from the
// environment (including a local .env file), an optional config file, and
// command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	PGHost     string
	PGPort     string
	PGDatabase string
	PGUser     string
	PGPassword string
	PGSSLMode  string

	ServerAddr string
	SkipRows   int
	RulesFile  string
}

// flagKeys maps viper keys to the CLI flag that may override them.
var flagKeys = map[string]string{
	"skip_rows":   "skip-rows",
	"server_addr": "addr",
	"rules_file":  "rules",
}

// Build assembles the configuration. A missing .env file is fine; a config
// file is only read when explicitly given.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("pg_port", "5432")
	v.SetDefault("pg_sslmode", "require")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("skip_rows", 2)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		PGHost:     v.GetString("pg_host"),
		PGPort:     v.GetString("pg_port"),
		PGDatabase: v.GetString("pg_db"),
		PGUser:     v.GetString("pg_user"),
		PGPassword: v.GetString("pg_password"),
		PGSSLMode:  v.GetString("pg_sslmode"),
		ServerAddr: v.GetString("server_addr"),
		SkipRows:   v.GetInt("skip_rows"),
		RulesFile:  v.GetString("rules_file"),
	}

	if cfg.PGHost == "" {
		return nil, fmt.Errorf("PG_HOST is required")
	}
	if cfg.PGDatabase == "" {
		return nil, fmt.Errorf("PG_DB is required")
	}
	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.PGUser),
		url.QueryEscape(c.PGPassword),
		c.PGHost,
		c.PGPort,
		c.PGDatabase,
		c.PGSSLMode,
	)
}

// Package config loads minisql settings from defaults, an optional YAML
// file, a .env file and MINISQL_* environment variables.
//
// EDUCATIONAL NOTES:
// ------------------
// Settings are layered. Each layer overrides the one before it:
//
//  1. Built-in defaults (SetDefaults)
//  2. minisql.yaml in the working directory, or the file given by --config
//  3. Environment variables, e.g. MINISQL_SERVER_PORT=9090 for server.port
//
// A .env file is loaded into the process environment before step 3, so its
// entries behave exactly like real environment variables.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MINISQL"

// DefaultConfigName is the file looked up in the working directory.
const DefaultConfigName = "minisql"

type Config struct {
	Server  Server  `mapstructure:"server"`
	Output  Output  `mapstructure:"output"`
	Log     Log     `mapstructure:"log"`
	Analyze Analyze `mapstructure:"analyze"`
}

type Server struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Output struct {
	Color  bool   `mapstructure:"color"`
	Format string `mapstructure:"format"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Analyze struct {
	// MaxSourceBytes caps the size of SQL accepted over HTTP.
	MaxSourceBytes int64 `mapstructure:"max_source_bytes"`
}

// Output formats accepted by output.format.
var validFormats = []string{"text", "json", "yaml", "toml"}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("output.color", true)
	v.SetDefault("output.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("analyze.max_source_bytes", int64(1<<20))
}

// New returns a viper instance with defaults and environment binding set
// up. When path is empty, minisql.yaml is looked up in the working directory.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration through a fresh viper instance. A missing
// default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	return LoadFrom(New(path), path != "")
}

// LoadFrom reads and decodes configuration from v.
func LoadFrom(v *viper.Viper, explicit bool) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if !IsValidFormat(c.Output.Format) {
		return fmt.Errorf("output.format %q is not one of %s", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Analyze.MaxSourceBytes <= 0 {
		return fmt.Errorf("analyze.max_source_bytes must be positive, got %d", c.Analyze.MaxSourceBytes)
	}
	return nil
}

// IsValidFormat reports whether f is an accepted output format.
func IsValidFormat(f string) bool {
	for _, vf := range validFormats {
		if f == vf {
			return true
		}
	}
	return false
}

// LoadDotEnv loads .env style files into the process environment. Existing
// variables win. With no arguments ".env" and ".env.local" are tried; files
// that do not exist are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

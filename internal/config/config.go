// Package config loads the vocab configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/vocab/internal/guard"
	"github.com/spf13/viper"
)

type Config struct {
	VocabFile         string      `yaml:"vocab_file" mapstructure:"vocab_file"`
	HistoryDB         string      `yaml:"history_db" mapstructure:"history_db"`
	StrictPersistence bool        `yaml:"strict_persistence" mapstructure:"strict_persistence"`
	Log               LogConfig   `yaml:"log" mapstructure:"log"`
	Drill             DrillConfig `yaml:"drill" mapstructure:"drill"`
	Menu              MenuConfig  `yaml:"menu" mapstructure:"menu"`
}

type LogConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

type DrillConfig struct {
	MaxExposures int           `yaml:"max_exposures" mapstructure:"max_exposures"`
	Rounds       int           `yaml:"rounds" mapstructure:"rounds"`
	RevealDelay  time.Duration `yaml:"reveal_delay" mapstructure:"reveal_delay"`
}

// MarshalYAML writes reveal_delay as a duration string so the output can be
// read back by Load.
func (d DrillConfig) MarshalYAML() (any, error) {
	return struct {
		MaxExposures int    `yaml:"max_exposures"`
		Rounds       int    `yaml:"rounds"`
		RevealDelay  string `yaml:"reveal_delay"`
	}{d.MaxExposures, d.Rounds, d.RevealDelay.String()}, nil
}

type MenuConfig struct {
	Plain bool `yaml:"plain" mapstructure:"plain"`
}

// Dir is the per-user directory holding the vocabulary, history and config.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vocab"
	}
	return filepath.Join(home, ".vocab")
}

// DefaultPath is where `config set` writes when no file was given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() *Config {
	return &Config{
		VocabFile: filepath.Join(Dir(), "vocab_hebrew.json"),
		HistoryDB: filepath.Join(Dir(), "history.db"),
		Drill: DrillConfig{
			MaxExposures: guard.DefaultPolicy.MaxExposures,
			Rounds:       guard.DefaultPolicy.Rounds,
			RevealDelay:  guard.DefaultPolicy.RevealDelay,
		},
	}
}

// Keys lists every settable key in dotted form.
var Keys = []string{
	"vocab_file",
	"history_db",
	"strict_persistence",
	"log.verbose",
	"log.json",
	"drill.max_exposures",
	"drill.rounds",
	"drill.reveal_delay",
	"menu.plain",
}

func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("vocab_file", cfg.VocabFile)
	v.SetDefault("history_db", cfg.HistoryDB)
	v.SetDefault("strict_persistence", cfg.StrictPersistence)
	v.SetDefault("log.verbose", cfg.Log.Verbose)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("drill.max_exposures", cfg.Drill.MaxExposures)
	v.SetDefault("drill.rounds", cfg.Drill.Rounds)
	v.SetDefault("drill.reveal_delay", cfg.Drill.RevealDelay)
	v.SetDefault("menu.plain", cfg.Menu.Plain)
	return v
}

// Load reads path, or config.yaml from the working directory or ~/.vocab
// when path is empty. VOCAB_* environment variables override the file.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix("VOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.VocabFile = expandHome(cfg.VocabFile)
	cfg.HistoryDB = expandHome(cfg.HistoryDB)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.VocabFile) == "" {
		return fmt.Errorf("config: vocab_file is required")
	}
	if strings.TrimSpace(c.HistoryDB) == "" {
		return fmt.Errorf("config: history_db is required")
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("config: drill.%w", err)
	}
	return nil
}

// Policy returns the drill limits.
func (c *Config) Policy() guard.Policy {
	return guard.Policy{
		MaxExposures: c.Drill.MaxExposures,
		Rounds:       c.Drill.Rounds,
		RevealDelay:  c.Drill.RevealDelay,
	}
}

// WriteValue sets key to value in the config file at path, creating it if
// needed. The value is parsed according to the key's type and the resulting
// file must still load.
func WriteValue(path, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("config: unknown key %q", key)
	}
	typed, err := parseValue(key, value)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}
	if typed, ok := typed.(time.Duration); ok {
		v.Set(key, typed.String())
	} else {
		v.Set(key, typed)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	_, err = Load(path)
	return err
}

func parseValue(key, value string) (any, error) {
	switch key {
	case "strict_persistence", "log.verbose", "log.json", "menu.plain":
		return strconv.ParseBool(value)
	case "drill.max_exposures", "drill.rounds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be positive, got %d", n)
		}
		return n, nil
	case "drill.reveal_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("must not be negative, got %s", d)
		}
		return d, nil
	default:
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("cannot be empty")
		}
		return value, nil
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Package config layers defaults, a TOML config file, the environment and
// command line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/papercomputeco/plugingen/pkg/llm"
)

const (
	dirName   = ".plugingen"
	fileName  = "config"
	fileType  = "toml"
	envPrefix = "PLUGINGEN"
)

// Config is the resolved configuration for a run.
type Config struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// DBPath is the SQLite transcript database. Empty keeps transcripts in memory.
	DBPath string `mapstructure:"db"`
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"provider": "provider",
	"model":    "model",
	"api-key":  "api_key",
	"base-url": "base_url",
	"timeout":  "timeout",
	"db":       "db",
}

// Dir returns the plugingen config directory (~/.plugingen/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// FilePath returns the default config file path (~/.plugingen/config.toml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := gotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration. configFile overrides the default location
// and must exist when given; flags may be nil. Later layers win: defaults,
// file, environment, then flags that were explicitly set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("provider", llm.ProviderOpenAI)
	v.SetDefault("timeout", llm.DefaultTimeout)
	// Unmarshal only sees env values for keys viper already knows.
	for _, key := range []string{"model", "api_key", "base_url", "db"} {
		v.SetDefault(key, "")
	}

	v.SetConfigType(fileType)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile(FilePath())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if configFile != "" || !missing {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyVendorEnv(&cfg)
	return &cfg, nil
}

// applyVendorEnv falls back to the variables each vendor's own tooling reads.
func applyVendorEnv(cfg *Config) {
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case llm.ProviderGemini:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	case llm.ProviderOllama:
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_HOST")
		}
	}
}

// ClientConfig converts the configuration into LLM client settings.
func (c *Config) ClientConfig() llm.ClientConfig {
	return llm.ClientConfig{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
}

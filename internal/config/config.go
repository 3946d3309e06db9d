package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/jarwalk/pkg/integrations/mavenrepo"
)

// EnvPrefix prefixes environment overrides, e.g. JARWALK_REPOSITORY_URL.
const EnvPrefix = "JARWALK"

// Config holds all application configuration.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Resolve    ResolveConfig    `mapstructure:"resolve"`
	Log        LogConfig        `mapstructure:"log"`
}

type RepositoryConfig struct {
	URL      string `mapstructure:"url"`
	LocalDir string `mapstructure:"local_dir"`
}

type HTTPConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
}

type ResolveConfig struct {
	SkipOptional bool `mapstructure:"skip_optional"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Repository.URL != "" && !strings.HasPrefix(c.Repository.URL, "https://") && !strings.HasPrefix(c.Repository.URL, "http://") {
		warnings = append(warnings, fmt.Sprintf("repository url %q is not an http(s) URL", c.Repository.URL))
	} else if strings.HasPrefix(c.Repository.URL, "http://") {
		warnings = append(warnings, fmt.Sprintf("repository url %q is not using https", c.Repository.URL))
	}

	if c.Repository.LocalDir == "" {
		warnings = append(warnings, "repository local_dir is empty, files will be stored in the working directory")
	}

	if c.HTTP.Timeout < 0 {
		warnings = append(warnings, fmt.Sprintf("http timeout %s is negative, using the default", c.HTTP.Timeout))
	}

	if c.HTTP.CacheTTL < 0 {
		warnings = append(warnings, fmt.Sprintf("http cache_ttl %s is negative, entries expire immediately", c.HTTP.CacheTTL))
	}

	if c.HTTP.Retries < 1 {
		warnings = append(warnings, fmt.Sprintf("http retries %d is below 1, requests are attempted once", c.HTTP.Retries))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}

	return warnings
}

// Load reads configuration from path, the environment and built-in
// defaults, in decreasing precedence order of environment, file, defaults.
// An empty path selects [DefaultPath] when that file exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if def, err := DefaultPath(); err == nil && fileExists(def) {
			path = def
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	localDir, err := DefaultLocalDir()
	if err != nil {
		localDir = ""
	}
	v.SetDefault("repository.url", mavenrepo.DefaultURL)
	v.SetDefault("repository.local_dir", localDir)
	v.SetDefault("http.cache_ttl", 24*time.Hour)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.retries", 3)
	v.SetDefault("resolve.skip_optional", false)
	v.SetDefault("log.level", "info")
}

// DefaultPath returns $XDG_CONFIG_HOME/jarwalk/config.toml, falling back
// to the user configuration directory.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "jarwalk", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jarwalk", "config.toml"), nil
}

// DefaultLocalDir returns the default local repository directory,
// $XDG_CACHE_HOME/jarwalk/repository or ~/.cache/jarwalk/repository.
func DefaultLocalDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "jarwalk", "repository"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("no home directory")
	}
	return filepath.Join(home, ".cache", "jarwalk", "repository"), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

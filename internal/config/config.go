package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/echograde/echograde/internal/grading"
)

// Config holds runtime configuration for the EchoGrade client.
type Config struct {
	// APIURL is the grading service base URL. Left empty, grading requests
	// fail with a configuration error instead of being sent.
	APIURL string

	UserID         string
	QuestionFile   string
	RequestTimeout time.Duration

	// DBPath locates the local result history database.
	DBPath         string
	HistoryEnabled bool

	// LogFile receives structured logs. Empty disables logging.
	LogFile string
}

// GradingConfig returns the grading client settings.
func (c Config) GradingConfig() grading.Config {
	return grading.Config{
		BaseURL: c.APIURL,
		UserID:  c.UserID,
		Timeout: c.RequestTimeout,
	}
}

// flagKeys maps command-line flag names to their configuration keys.
var flagKeys = map[string]string{
	"api-url":       "api_url",
	"user-id":       "user_id",
	"question-file": "question_file",
	"timeout":       "request_timeout",
	"db":            "db",
	"log-file":      "log_file",
}

// Load reads configuration from ECHOGRADE_* environment variables and an
// optional .env file in the working directory. Flags in fs that were set
// explicitly take precedence over the environment; fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ECHOGRADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("api_url", "")
	v.SetDefault("user_id", grading.DefaultUserID)
	v.SetDefault("question_file", "")
	v.SetDefault("request_timeout", grading.DefaultTimeout.String())
	v.SetDefault("db", "")
	v.SetDefault("history", true)
	v.SetDefault("log_file", "")

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	timeoutStr := v.GetString("request_timeout")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout %q: %w", timeoutStr, err)
	}

	cfg := Config{
		APIURL:         strings.TrimSpace(v.GetString("api_url")),
		UserID:         strings.TrimSpace(v.GetString("user_id")),
		QuestionFile:   v.GetString("question_file"),
		RequestTimeout: timeout,
		DBPath:         v.GetString("db"),
		HistoryEnabled: v.GetBool("history"),
		LogFile:        v.GetString("log_file"),
	}

	if cfg.UserID == "" {
		cfg.UserID = grading.DefaultUserID
	}
	if fs != nil && fs.Changed("no-history") {
		if noHistory, err := fs.GetBool("no-history"); err == nil && noHistory {
			cfg.HistoryEnabled = false
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
// An empty APIURL is allowed; grading reports it when an answer is submitted.
func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user id must not be empty")
	}
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api url %q: must be an absolute http(s) URL", c.APIURL)
		}
	}
	return nil
}

// DefaultDBPath resolves the history database path in priority order:
// 1. $XDG_DATA_HOME/echograde/echograde.db
// 2. ~/.local/share/echograde/echograde.db
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "echograde", "echograde.db"), nil
}

// ResolveDBPath returns the configured database path or the default one,
// creating its parent directory.
func (c Config) ResolveDBPath() (string, error) {
	p := c.DBPath
	if p == "" {
		var err error
		if p, err = DefaultDBPath(); err != nil {
			return "", err
		}
	}
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

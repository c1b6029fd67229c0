// Package config resolves runtime settings for fluxgallery.
//
// Values are layered, later sources winning:
//
//	defaults -> YAML file -> FLUXGALLERY_* environment -> command-line flags
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/models"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

const appName = "fluxgallery"

// Config holds runtime settings.
//
// Fields:
//   - BaseURL: image service root, requests go to <BaseURL>/images.
//   - Timeout: per request bound, no retries.
//   - PageSize / Sort: initial gallery query state.
//   - Token / TokenFile: bearer credential, Token wins when both are set.
//   - LogFile / LogLevel: the TUI owns the terminal so logs go to a file.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	PageSize  int
	Sort      models.SortKey
	Token     string
	TokenFile string
	LogFile   string
	LogLevel  string
}

// LoadDefaults populates Config with the built-in settings
func (c *Config) LoadDefaults() {
	c.BaseURL = api.DefaultBaseURL
	c.Timeout = api.DefaultTimeout
	c.PageSize = models.DefaultPageSize
	c.Sort = models.SortNewest
	c.Token = ""
	c.TokenFile = ""
	c.LogFile = filepath.Join(Dir(), appName+".log")
	c.LogLevel = "info"
}

// Dir is where the config file and log live by default
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appName)
}

// DefaultPath is the config file read when --config is not given
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path reads DefaultPath if it exists.
// Flags are applied afterwards by the caller with ApplyFlags.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	required := path != ""
	if !required {
		path = DefaultPath()
	}
	if err := cfg.LoadFile(path); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.LoadEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late and
// normalises the sort key
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) URL", ErrInvalid, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive, got %d", ErrInvalid, c.PageSize)
	}
	sort, err := models.ParseSortKey(string(c.Sort))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	c.Sort = sort
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return nil
}

// QueryState returns the initial gallery query for these settings
func (c *Config) QueryState() models.QueryState {
	state := models.DefaultQueryState()
	state.PageSize = c.PageSize
	state.SortKey = c.Sort
	return state
}

// ResolveToken returns Token, or the trimmed contents of TokenFile.
// No token is not an error; the gallery is browsable signed out.
func (c *Config) ResolveToken() (string, error) {
	if tok := strings.TrimSpace(c.Token); tok != "" {
		return tok, nil
	}
	if c.TokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

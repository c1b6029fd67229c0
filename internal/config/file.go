package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thesavant42/fluxgallery/internal/models"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of the config file. Unset keys keep the
// value from the previous layer.
type fileConfig struct {
	BaseURL   *string   `yaml:"base_url"`
	Timeout   *duration `yaml:"timeout"`
	PageSize  *int      `yaml:"page_size"`
	Sort      *string   `yaml:"sort"`
	Token     *string   `yaml:"token"`
	TokenFile *string   `yaml:"token_file"`
	LogFile   *string   `yaml:"log_file"`
	LogLevel  *string   `yaml:"log_level"`
}

// duration accepts "30s" style strings or a bare number of seconds
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = duration(parsed)
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// LoadFile overlays the YAML file at path
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.Token, fc.Token)
	setString(&c.TokenFile, fc.TokenFile)
	setString(&c.LogFile, fc.LogFile)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.Timeout != nil {
		c.Timeout = time.Duration(*fc.Timeout)
	}
	if fc.PageSize != nil {
		c.PageSize = *fc.PageSize
	}
	if fc.Sort != nil {
		c.Sort = models.SortKey(*fc.Sort)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Environment variable names
const (
	EnvBaseURL   = "FLUXGALLERY_BASE_URL"
	EnvTimeout   = "FLUXGALLERY_TIMEOUT"
	EnvPageSize  = "FLUXGALLERY_PAGE_SIZE"
	EnvSort      = "FLUXGALLERY_SORT"
	EnvToken     = "FLUXGALLERY_TOKEN"
	EnvTokenFile = "FLUXGALLERY_TOKEN_FILE"
	EnvLogFile   = "FLUXGALLERY_LOG_FILE"
	EnvLogLevel  = "FLUXGALLERY_LOG_LEVEL"
)

// LoadEnv overlays non-empty FLUXGALLERY_* variables read through getenv
func (c *Config) LoadEnv(getenv func(string) string) error {
	strs := map[string]*string{
		EnvBaseURL:   &c.BaseURL,
		EnvToken:     &c.Token,
		EnvTokenFile: &c.TokenFile,
		EnvLogFile:   &c.LogFile,
		EnvLogLevel:  &c.LogLevel,
	}
	for name, dst := range strs {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}

	if v := getenv(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a number", ErrInvalid, EnvPageSize, v)
		}
		c.PageSize = n
	}
	if v := getenv(EnvSort); v != "" {
		c.Sort = models.SortKey(v)
	}
	return nil
}

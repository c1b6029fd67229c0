package config

import (
	"github.com/spf13/pflag"
	"github.com/thesavant42/fluxgallery/internal/models"
)

// Flag names shared by every command
const (
	FlagConfig    = "config"
	FlagBaseURL   = "base-url"
	FlagTimeout   = "timeout"
	FlagPageSize  = "page-size"
	FlagSort      = "sort"
	FlagToken     = "token"
	FlagTokenFile = "token-file"
	FlagLogFile   = "log-file"
	FlagLogLevel  = "log-level"
)

// RegisterFlags adds the config flags to fs. Defaults are left empty so
// that unset flags do not mask the file and environment layers.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "config file (default "+DefaultPath()+")")
	fs.String(FlagBaseURL, "", "image service base URL")
	fs.Duration(FlagTimeout, 0, "per request timeout")
	fs.Int(FlagPageSize, 0, "images per page")
	fs.StringP(FlagSort, "s", "", "initial sort: newest, oldest, prompt-asc, prompt-desc")
	fs.String(FlagToken, "", "bearer token for delete")
	fs.String(FlagTokenFile, "", "file containing the bearer token")
	fs.String(FlagLogFile, "", "log file path")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn, error")
}

// ApplyFlags overlays the flags the user actually set
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		FlagBaseURL:   &c.BaseURL,
		FlagToken:     &c.Token,
		FlagTokenFile: &c.TokenFile,
		FlagLogFile:   &c.LogFile,
		FlagLogLevel:  &c.LogLevel,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed(FlagTimeout) {
		d, err := fs.GetDuration(FlagTimeout)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	if fs.Changed(FlagPageSize) {
		n, err := fs.GetInt(FlagPageSize)
		if err != nil {
			return err
		}
		c.PageSize = n
	}
	if fs.Changed(FlagSort) {
		s, err := fs.GetString(FlagSort)
		if err != nil {
			return err
		}
		c.Sort = models.SortKey(s)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/auth"
	"github.com/thesavant42/fluxgallery/internal/config"
	"github.com/thesavant42/fluxgallery/internal/gallery"
	"github.com/thesavant42/fluxgallery/internal/logging"
	"github.com/thesavant42/fluxgallery/internal/ui"
)

// app holds what every command needs once flags are parsed
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
	session   *auth.Session
	client    *api.ImageClient

	interactive bool
	now         func() time.Time
}

func newApp() *app {
	return &app{
		interactive: term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd())),
		now:         time.Now,
	}
}

// setup resolves configuration and builds the service client and session
func (a *app) setup(cmd *cobra.Command) error {
	fs := cmd.Flags()
	path, err := fs.GetString(config.FlagConfig)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel, "fluxgallery")
	if err != nil {
		ui.PrintError(cmd.ErrOrStderr(), fmt.Sprintf("logging disabled: %v", err))
	}
	a.logger, a.logCloser = logger, closer

	a.session = auth.NewSession()
	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}
	if token != "" {
		if err := a.session.SignIn(token); err != nil {
			return err
		}
	}

	a.client = api.NewImageClient(cfg.BaseURL, cfg.Timeout, logger)
	a.logger.Debug("Configured", "base_url", cfg.BaseURL, "timeout", cfg.Timeout, "signed_in", token != "")
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

func (a *app) newViewModel() *gallery.ViewModel {
	return gallery.New(a.client, a.session, a.cfg.QueryState(), a.logger)
}

func (a *app) service() string {
	return api.ServiceLabel(a.cfg.BaseURL)
}

// spin runs action behind a spinner on a terminal, directly otherwise
func (a *app) spin(ctx context.Context, title string, action func(context.Context) error) error {
	if !a.interactive {
		return action(ctx)
	}
	return ui.RunWithSpinner(ctx, title, action)
}

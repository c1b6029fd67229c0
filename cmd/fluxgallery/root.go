package main

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thesavant42/fluxgallery/internal/config"
	"github.com/thesavant42/fluxgallery/internal/ui"
)

var errNoTerminal = errors.New("the gallery needs an interactive terminal; try the list or export commands")

func newRootCmd(a *app) *cobra.Command {
	var login bool

	cmd := &cobra.Command{
		Use:   "fluxgallery",
		Short: "Browse, search and curate generated images from the terminal",
		Long: `Flux Gallery fetches the image collection from the generation service and
shows it as a searchable, sortable, paginated grid.

Admins can delete images after signing in with a bearer token, passed with
--token or --token-file, set in FLUXGALLERY_TOKEN, or entered with --login.`,
		Example: `  # Open the gallery
  fluxgallery

  # Point at a local service and start sorted by prompt
  fluxgallery --base-url http://localhost:8000/api --sort prompt-asc

  # Sign in for this session only
  fluxgallery --login`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive {
				return errNoTerminal
			}
			if login {
				token, err := ui.PromptForToken()
				if err != nil {
					return err
				}
				if err := a.session.SignIn(token); err != nil {
					return err
				}
			}

			vm := a.newViewModel()
			defer vm.Close()
			return ui.RunGallery(cmd.Context(), vm, a.session, a.service(), a.logger)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.Flags().BoolVar(&login, "login", false, "prompt for an access token before opening the gallery")

	cmd.AddCommand(newListCmd(a), newExportCmd(a), newDeleteCmd(a))
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/gallery"
	"github.com/thesavant42/fluxgallery/internal/models"
	"github.com/thesavant42/fluxgallery/internal/ui"
)

var errNeedConfirmation = errors.New("refusing to delete without confirmation; pass --yes")

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an image (admins only)",
		Example: `  # Delete image 42 after confirming
  fluxgallery delete 42 --token-file ~/.config/fluxgallery/token

  # Delete without asking
  FLUXGALLERY_TOKEN=... fluxgallery delete 42 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid image id %q", args[0])
			}

			vm := a.newViewModel()
			defer vm.Close()

			if !vm.CanDelete() {
				return fmt.Errorf("%w: sign in as an admin with --token or --token-file to delete images", api.ErrUnauthorized)
			}

			out := cmd.OutOrStdout()
			if !yes {
				if !a.interactive {
					return errNeedConfirmation
				}
				if err := a.spin(cmd.Context(), "Fetching images...", vm.Load); err != nil {
					return err
				}
				record, ok := findRecord(vm.Matching(), id)
				if !ok {
					return fmt.Errorf("%w: image %d", api.ErrNotFound, id)
				}
				confirmed, err := ui.ConfirmDelete(record)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			err = a.spin(cmd.Context(), fmt.Sprintf("Deleting image %d...", id), func(ctx context.Context) error {
				return vm.DeleteImage(ctx, id)
			})
			switch {
			case errors.Is(err, gallery.ErrRefreshAfterDelete):
				a.logger.Warn("Refresh after delete failed", "id", id, "error", err)
			case err != nil:
				return err
			}

			ui.PrintSuccess(out, fmt.Sprintf("Deleted image %d", id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func findRecord(records []models.ImageRecord, id int64) (models.ImageRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.ImageRecord{}, false
}

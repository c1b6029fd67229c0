package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesavant42/fluxgallery/internal/ui"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		search string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every matching image to a markdown file",
		Example: `  # Export the whole collection, asking for a filename
  fluxgallery export

  # Export images about lighthouses, oldest first
  fluxgallery export --search lighthouse --sort oldest -o lighthouses.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := a.newViewModel()
			defer vm.Close()

			if err := a.spin(cmd.Context(), "Fetching images...", vm.Load); err != nil {
				return err
			}
			vm.SetSearchTerm(search)
			records := vm.Matching()
			v := vm.View()

			path := output
			if path == "" {
				def := ui.DefaultExportFilename(a.service(), a.now())
				path = def
				if a.interactive {
					var err error
					if path, err = ui.PromptForFilename(def); err != nil {
						return err
					}
				}
			}

			content := ui.GenerateMarkdown(records, v.Query, a.service(), a.now())
			written, err := ui.WriteMarkdown(path, content)
			if err != nil {
				return err
			}

			a.logger.Info("Exported images", "count", len(records), "path", written)
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %d images to %s", len(records), written))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "markdown file to write")
	cmd.Flags().StringVarP(&search, "search", "q", "", "only images whose prompt contains this text")
	return cmd
}

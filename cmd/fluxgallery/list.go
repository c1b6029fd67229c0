package main

import (
	"github.com/spf13/cobra"

	"github.com/thesavant42/fluxgallery/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	var (
		page   int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the gallery",
		Example: `  # First page, newest first
  fluxgallery list

  # Third page of images whose prompt mentions cats, A-Z
  fluxgallery list --search cat --sort prompt-asc --page 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := a.newViewModel()
			defer vm.Close()

			if err := a.spin(cmd.Context(), "Fetching images...", vm.Load); err != nil {
				return err
			}
			vm.SetSearchTerm(search)
			vm.SetPage(page)

			v := vm.View()
			out := cmd.OutOrStdout()
			ui.PrintHeader(out, a.service(), v)
			ui.PrintImageTable(out, v.PageItems, v.Query.SearchTerm, a.now())
			ui.PrintPageHint(out, v)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to print (clamped to the last page)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "only images whose prompt contains this text")
	return cmd
}

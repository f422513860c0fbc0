package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/browse"
	"github.com/HerbHall/winegallery/internal/query"
)

var browseTag string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Open an interactive gallery in the terminal. Type 'help' at the prompt
for the list of commands.

Example:
  winegallery browse
  winegallery browse --tag Honey`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		engine, err := newEngine(ctx)
		if err != nil {
			return err
		}
		session := browse.New(engine, cmd.InOrStdin(), cmd.OutOrStdout(),
			browse.WithLogger(logger),
			browse.WithState(engine.NewState(
				query.WithFlavorTag(browseTag),
				query.WithPageSize(settings.Plugins.Gallery.PageSize),
			)),
		)
		return session.Run(ctx)
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseTag, "tag", "", "start with this flavor tag selected")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/backup"
)

var (
	restoreDataDir string
	restoreForce   bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore a backup archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := backup.Restore(cmd.Context(), args[0], restoreDataDir, restoreForce)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restore complete: %d files from %s (version %s) restored to %s\n",
			len(manifest.Files), manifest.CreatedAt.Format("2006-01-02 15:04:05"), manifest.Build.Version, restoreDataDir)
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreDataDir, "data-dir", ".", "target directory for restored files")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "overwrite existing files")
}

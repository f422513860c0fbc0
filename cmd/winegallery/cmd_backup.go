package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/backup"
)

var backupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the snapshot database and config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output := backupOutput
		if output == "" {
			output = fmt.Sprintf("winegallery-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
		}
		if err := backup.Backup(cmd.Context(), settings.Database.Path, v.ConfigFileUsed(), output); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "output file path (default: winegallery-backup-{timestamp}.tar.gz)")
}

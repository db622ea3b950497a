package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/portfolio/internal/db"
)

var backupCmd = &cobra.Command{
	Use:   "backup <dest>",
	Short: "Write a consistent copy of the database to dest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.Backup(cmd.Context(), database, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database backup completed.")
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <src>",
	Short: "Replace the database with a backup; stop the server first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if err := db.Restore(cmd.Context(), args[0], cfg.DatabasePath, logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database restore completed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
}

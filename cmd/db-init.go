package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eslsoft/vocdrill/internal/adapter/repository"
	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
)

// dbInitCmd creates the database schema. Other commands migrate on startup
// too; this exists for provisioning a fresh postgres database explicitly.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		return repository.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/nutri-track-api/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: "Runs the embedded SQL migrations for the configured driver in filename order. " +
		"Each file and its migrations-table record commit in one transaction.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cmd.Context(), cfg.DBDriver, cfg.DSN())
		if err != nil {
			return fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
		}
		defer st.Close()

		applied, err := st.Migrate(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range applied {
			fmt.Fprintf(out, "  applied: %s\n", name)
		}
		if len(applied) == 0 {
			fmt.Fprintln(out, "No pending migrations.")
		} else {
			fmt.Fprintf(out, "\n%d migration(s) applied.\n", len(applied))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

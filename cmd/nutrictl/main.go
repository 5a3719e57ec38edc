// nutrictl is the admin CLI for the nutrition tracker: schema migrations,
// user creation, weekly summaries, recommendation runs and integrity checks.
// Usage: go run ./cmd/nutrictl <command> (reads .env like the server).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lg/nutri-track-api/internal/config"
	"lg/nutri-track-api/internal/store"
)

var (
	dbDriver string
	dbDSN    string
)

var rootCmd = &cobra.Command{
	Use:           "nutrictl",
	Short:         "nutrictl administers the nutrition tracker database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: postgres or sqlite (default from DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Postgres URL or SQLite path (default from DB_URL / SQLITE_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env and the environment, then applies --driver and --db.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbDSN != "" {
		if cfg.DBDriver == store.DriverPostgres {
			cfg.DBURL = dbDSN
		} else {
			cfg.SQLitePath = dbDSN
		}
	}
	return cfg, nil
}

// withStore opens the configured store for the duration of run. SQLite files
// are migrated on open so every command works against a fresh path.
func withStore(ctx context.Context, run func(store.Store, config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	defer st.Close()

	if cfg.DBDriver == store.DriverSQLite {
		if _, err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return run(st, cfg)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alextreichler/storefront/internal/config"
	"github.com/alextreichler/storefront/internal/store"
)

var (
	dataDir    string
	driver     string
	dbPath     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Operate on storefront data files",
	Long: `storectl works directly on the storefront collections.

Defaults come from the same environment variables as the server
(DATA_DIR, STORE_DRIVER, DB_PATH).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Only errors; the server's key warnings do not apply here.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", cfg.DataDir, "Directory holding the JSON collections")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", cfg.StoreDriver, "Storage driver (json or sqlite)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path for the sqlite driver")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func openStore() (*store.Store, error) {
	backend, err := store.OpenBackend(driver, dataDir, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	return store.NewStore(backend), nil
}

package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oikos/disc-backend/internal/bootstrap"
	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "discctl",
		Short:         "Operator tool for the DISC questionnaire backend",
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("catalog", "", "Path to a catalog YAML file (overrides CATALOG_FILE, default: embedded catalog)")
	root.PersistentFlags().String("log-level", "warn", "Log level for store and export diagnostics")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newSeedCmd())
	return root
}

// loadCatalog returns the catalog named by --catalog, then CATALOG_FILE, then
// the embedded default.
func loadCatalog(cmd *cobra.Command, cfg *config.Config) (*disc.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" && cfg != nil {
		path = cfg.CatalogFile
	}
	return disc.LoadCatalog(path)
}

func cmdLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(cmd.ErrOrStderr(), level, "auto")
}

// openStores connects the backend selected by the environment.
func openStores(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*bootstrap.Stores, error) {
	return bootstrap.OpenStores(ctx, cfg, cmdLogger(cmd))
}

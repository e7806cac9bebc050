// Command ambitionsctl works on the stored ambitions collection offline:
// it exports and imports the JSON archive and renders tickets to disk.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ambitionsctl",
		Short:         "Manage the ambitions collection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to config.yaml")

	root.AddCommand(newExportCmd(), newImportCmd(), newTicketCmd())
	return root
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

// openCore loads the configured collection. Callers close the service.
func openCore(ctx context.Context) (*core.CoreService, error) {
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	service, err := core.NewCoreService(ctx, config)
	if err != nil {
		return nil, err
	}
	service.Load(ctx)
	return service, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

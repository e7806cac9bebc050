package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Append records from a JSON export",
		Long:  `Appends the records of an exported JSON array. Records whose id is already stored are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var records []core.Ambition
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			service, err := openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			added := service.Import(cmd.Context(), records)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d records\n", added, len(records))
			return nil
		},
	}
}

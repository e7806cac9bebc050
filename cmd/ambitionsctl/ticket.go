package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jo-hoe/ambitions/internal/ticket"
	"github.com/spf13/cobra"
)

func newTicketCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "ticket [id]",
		Short: "Render a ticket PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			service, err := openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = service.Close() }()

			record, ok := service.GetAmbition(id)
			if !ok {
				return fmt.Errorf("ambition %d not found", id)
			}
			config := service.Config()
			renderer, err := ticket.NewRenderer(config.Ticket.Width, config.Ticket.Height, config.Location())
			if err != nil {
				return err
			}
			data, err := renderer.Render(record)
			if err != nil {
				return err
			}

			if out == "" {
				out = ticket.FileName(record)
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ambition-ticket-<name>.png)")
	return cmd
}

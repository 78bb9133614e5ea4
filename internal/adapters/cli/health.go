package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(opts)
			if err != nil {
				return err
			}

			return withDaemon(cmd.Context(), s, func(ctx context.Context, client *grpcadapter.DaemonClient) error {
				state, err := client.Health(ctx)
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				if state != "SERVING" {
					return fmt.Errorf("daemon at %s is %s", s.server, state)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "✓ Daemon is healthy")
				fmt.Fprintf(out, "  Server:  %s\n", s.server)
				fmt.Fprintf(out, "  Status:  %s\n", state)
				return nil
			})
		},
	}
}

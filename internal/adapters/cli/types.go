package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
)

// NewTypesCommand creates the types command
func NewTypesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the request types the daemon can dispatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(opts)
			if err != nil {
				return err
			}

			return withDaemon(cmd.Context(), s, func(ctx context.Context, client *grpcadapter.DaemonClient) error {
				types, err := client.ListTypes(ctx)
				if err != nil {
					return fmt.Errorf("failed to list types: %w", err)
				}

				if s.output == "json" {
					fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(types))
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tRESPONSE")
				for _, t := range types {
					response := "yes"
					if t.Void {
						response = "void"
					}
					fmt.Fprintf(w, "%s\t%s\n", t.Name, response)
				}
				return w.Flush()
			})
		},
	}
}

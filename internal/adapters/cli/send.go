package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
)

// NewSendCommand creates the send command
func NewSendCommand(opts *globalOptions) *cobra.Command {
	var (
		payloadFlag string
		payloadFile string
	)

	cmd := &cobra.Command{
		Use:   "send <type> [payload]",
		Short: "Dispatch a request through the daemon",
		Long: `Send one request to the daemon and print the handler's response.

The type is the dotted request name listed by 'mediator types'. The payload
is a JSON object given inline, with --payload, or read with --file
('-' reads stdin). Void requests print null.

Examples:
  mediator send get.order.query '{"order_id": 1001}'
  mediator send delete.order.command --payload '{"order_id": 1001}'
  echo '{"user_id": 1}' | mediator send get.user.query --file -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline := payloadFlag
			if len(args) == 2 {
				if inline != "" {
					return fmt.Errorf("payload given twice")
				}
				inline = args[1]
			}

			payload, err := readPayload(inline, payloadFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			s, err := resolveSettings(opts)
			if err != nil {
				return err
			}

			return withDaemon(cmd.Context(), s, func(ctx context.Context, client *grpcadapter.DaemonClient) error {
				result, requestID, err := client.DispatchWithID(ctx, args[0], payload)
				if err != nil {
					st := status.Convert(err)
					return fmt.Errorf("%s failed (%s): %s", args[0], st.Code(), st.Message())
				}

				if opts.verbose {
					fmt.Fprintf(cmd.ErrOrStderr(), "request id: %s\n", requestID)
				}
				return printResult(cmd, s.output, result)
			})
		},
	}

	cmd.Flags().StringVarP(&payloadFlag, "payload", "p", "", "JSON payload")
	cmd.Flags().StringVarP(&payloadFile, "file", "f", "", "Read the JSON payload from a file, '-' for stdin")

	return cmd
}

func printResult(cmd *cobra.Command, output string, result json.RawMessage) error {
	out := cmd.OutOrStdout()
	if output == "text" {
		var v any
		if err := json.Unmarshal(result, &v); err != nil {
			return err
		}
		if obj, ok := v.(map[string]any); ok {
			keys := make([]string, 0, len(obj))
			for key := range obj {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(out, "%s: %v\n", key, obj[key])
			}
			return nil
		}
		fmt.Fprintln(out, v)
		return nil
	}

	var v any
	if err := json.Unmarshal(result, &v); err != nil {
		return err
	}
	fmt.Fprintln(out, prettyPrint(v))
	return nil
}

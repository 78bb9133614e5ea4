package cli

import (
	"context"
	"fmt"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
)

// withDaemon connects to the daemon, runs fn under the call timeout and
// closes the connection
func withDaemon(ctx context.Context, s *settings, fn func(ctx context.Context, client *grpcadapter.DaemonClient) error) error {
	client, err := grpcadapter.NewDaemonClient(s.server)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return fn(ctx, client)
}

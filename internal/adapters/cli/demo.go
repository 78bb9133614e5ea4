package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/mediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/mediator-go/internal/application/orders"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/application/users"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/database"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/logging"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// NewDemoCommand creates the demo command
func NewDemoCommand(opts *globalOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the example handlers in-process",
		Long: `Run the bundled user and order handlers through an in-process mediator
backed by SQLite. No daemon is needed.

The demo creates a user, reads it back, places an order, reads it back and
deletes it again.

Examples:
  mediator demo
  mediator demo --database ./demo.db -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if opts.verbose {
				l, err := logging.NewLogger(config.LoggingConfig{
					Level:  "debug",
					Format: "text",
					Output: "stderr",
				}, "demo")
				if err != nil {
					return err
				}
				logger = l
			}
			defer func() { _ = logger.Sync() }()

			ctx := logging.WithLogger(cmd.Context(), logger)
			return runDemo(ctx, cmd.OutOrStdout(), dbPath, logger)
		},
	}

	cmd.Flags().StringVar(&dbPath, "database", ":memory:", "SQLite database path")

	return cmd
}

func runDemo(ctx context.Context, out io.Writer, dbPath string, logger *zap.Logger) error {
	db, err := database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: dbPath})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := persistence.NewGormUserRepository(db)
	registry := setup.NewHandlerRegistry(
		userRepo,
		persistence.NewGormOrderRepository(db),
		setup.WithObservers(logging.NewDispatchObserver(logger)),
	)

	m, provider, err := registry.CreateConfiguredMediator(ctx)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	defer func() { _ = provider.Close() }()

	const email = "jane.smith@example.com"

	fmt.Fprintln(out, "Creating user...")
	if err := mediator.SendVoid(ctx, m, users.CreateUserCommand{Name: "Jane Smith", Email: email}); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintln(out, "✓ User created")

	// CreateUserCommand returns nothing, so look the new ID up by email
	stored, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nGetting user %d...\n", stored.ID)
	u, err := mediator.Send(ctx, m, users.GetUserQuery{UserID: stored.ID})
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	fmt.Fprintf(out, "✓ User: %s (%s)\n", u.Name, u.Email)

	fmt.Fprintln(out, "\nCreating order...")
	orderID, err := mediator.Send(ctx, m, orders.CreateOrderCommand{ProductName: "Amazing Widget", Price: 149.99})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	fmt.Fprintf(out, "✓ Order created with ID: %d\n", orderID)

	fmt.Fprintf(out, "\nGetting order %d...\n", orderID)
	o, err := mediator.Send(ctx, m, orders.GetOrderQuery{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	fmt.Fprintf(out, "✓ Order: %s, $%.2f, placed %s\n", o.ProductName, o.Price, o.OrderDate.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(out, "\nDeleting order %d...\n", orderID)
	if err := mediator.SendVoid(ctx, m, orders.DeleteOrderCommand{OrderID: orderID}); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	fmt.Fprintln(out, "✓ Order deleted")

	return nil
}

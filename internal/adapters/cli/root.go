package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	server     string
	configPath string
	output     string
	timeout    time.Duration
	verbose    bool
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "mediator",
		Short: "Mediator CLI - dispatch requests to the mediator daemon",
		Long: `Mediator CLI sends requests to a running mediator daemon over gRPC,
or runs the bundled example handlers in-process.

Examples:
  mediator types
  mediator send get.user.query '{"user_id": 1}'
  mediator send create.order.command -p '{"product_name": "Widget", "price": 9.99}'
  mediator health
  mediator config set server localhost:7070
  mediator demo`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.server, "server", "",
		"Daemon address: host:port or unix:<socket path> (default from user config or daemon config)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to the daemon config file")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "",
		"Output format: json or text")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0,
		"Timeout for each daemon call")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewSendCommand(opts))
	rootCmd.AddCommand(NewTypesCommand(opts))
	rootCmd.AddCommand(NewHealthCommand(opts))
	rootCmd.AddCommand(NewConfigCommand(opts))
	rootCmd.AddCommand(NewDemoCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

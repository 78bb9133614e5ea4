package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage mediator configuration settings.

Daemon configuration is loaded from multiple sources with priority:
1. Environment variables (MED_* prefix)
2. Config file (config.yaml)
3. Default values

CLI preferences are stored in ~/.mediator/config.json

Examples:
  mediator config show
  mediator config set server localhost:7070
  mediator config set output text
  mediator config set timeout ""`,
	}

	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.Default()
			}

			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := handler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Mediator Configuration")
			fmt.Fprintln(out, "======================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", handler.GetConfigPath())
			fmt.Fprintf(out, "  Server:           %s\n", orUnset(userCfg.Server))
			fmt.Fprintf(out, "  Output:           %s\n", orUnset(userCfg.Output))
			if userCfg.Timeout > 0 {
				fmt.Fprintf(out, "  Timeout:          %s\n", userCfg.Timeout)
			} else {
				fmt.Fprintf(out, "  Timeout:          %s\n", orUnset(""))
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.DSN())
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
				fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			network, address := cfg.Daemon.Network()
			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Listen:           %s %s\n", network, address)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Dispatch Timeout: %s\n", cfg.Daemon.DispatchTimeout)
			fmt.Fprintf(out, "  Rate Limit:       %g req/s (burst: %d)\n",
				cfg.Daemon.RateLimit.Requests, cfg.Daemon.RateLimit.Burst)

			fmt.Fprintln(out, "\nCache:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Cache.Enabled)
			if cfg.Cache.URL != "" {
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Cache.URL))
			} else {
				fmt.Fprintf(out, "  Address:          %s\n", cfg.Cache.Address)
			}
			fmt.Fprintf(out, "  TTL:              %s\n", cfg.Cache.TTL)

			fmt.Fprintln(out, "\nMessaging:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Messaging.Enabled)
			fmt.Fprintf(out, "  URL:              %s\n", cfg.Messaging.URL)
			fmt.Fprintf(out, "  Subject Prefix:   %s\n", cfg.Messaging.SubjectPrefix)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         http://%s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a CLI preference",
		Long: fmt.Sprintf(`Set a CLI preference. An empty value clears it.

Keys: %s`, strings.Join(config.UserConfigKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := handler.Set(args[0], args[1]); err != nil {
				return err
			}

			if args[1] == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s to %s\n", args[0], args[1])
			}
			return nil
		},
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

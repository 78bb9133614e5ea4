package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

const defaultTimeout = 10 * time.Second

// settings are the effective connection and output settings for a command
type settings struct {
	server  string
	output  string
	timeout time.Duration
}

// resolveSettings merges settings with priority:
// 1. CLI flags
// 2. User preferences (~/.mediator/config.json)
// 3. Daemon configuration (config.yaml, MED_* variables)
func resolveSettings(opts *globalOptions) (*settings, error) {
	s := &settings{server: opts.server, output: opts.output, timeout: opts.timeout}

	if s.server == "" || s.output == "" || s.timeout == 0 {
		userCfg, err := loadUserConfig()
		if err != nil {
			return nil, err
		}
		if s.server == "" {
			s.server = userCfg.Server
		}
		if s.output == "" {
			s.output = userCfg.Output
		}
		if s.timeout == 0 {
			s.timeout = userCfg.Timeout
		}
	}

	if s.server == "" {
		cfg := config.LoadConfigOrDefault(opts.configPath)
		s.server = grpcadapter.Target(cfg.Daemon)
	}
	if s.output == "" {
		s.output = "json"
	}
	if s.timeout == 0 {
		s.timeout = defaultTimeout
	}

	if s.output != "json" && s.output != "text" {
		return nil, fmt.Errorf("unsupported output format %q, use json or text", s.output)
	}
	return s, nil
}

func loadUserConfig() (*config.UserConfig, error) {
	h, err := config.NewUserConfigHandler()
	if err != nil {
		return nil, err
	}
	return h.Load()
}

// readPayload returns the JSON payload from an argument, a file ("-" for
// stdin) or nothing
func readPayload(arg, file string, stdin io.Reader) (json.RawMessage, error) {
	var data []byte
	switch {
	case arg != "" && file != "":
		return nil, fmt.Errorf("give the payload either inline or with --file, not both")
	case file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		data = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		data = b
	default:
		data = []byte(arg)
	}

	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// prettyPrint formats JSON for display
func prettyPrint(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/adapters/cli"
	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/services"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// isolateHome points the user preferences at an empty home directory
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// startDaemon serves the application handlers on a unix socket and returns
// the --server value for it
func startDaemon(t *testing.T) string {
	t.Helper()

	// unix socket paths are limited to about 100 bytes
	dir, err := os.MkdirTemp("", "med")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := config.Default().Daemon
	cfg.SocketPath = filepath.Join(dir, "d.sock")
	cfg.ShutdownTimeout = time.Second

	repos := helpers.NewTestRepositories(t)
	c := services.NewCollection()
	require.NoError(t, setup.NewHandlerRegistry(repos.UserRepo, repos.OrderRepo).Register(c))
	provider := c.Build()
	t.Cleanup(func() { _ = provider.Close() })

	catalog, err := grpcadapter.NewCatalog(setup.Modules()...)
	require.NoError(t, err)

	service := grpcadapter.NewDispatcherService(provider, catalog, cfg.DispatchTimeout, grpcadapter.NewErrorMapper())
	server := grpcadapter.NewDaemonServer(cfg, service, nil)
	lis, err := grpcadapter.Listen(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return grpcadapter.Target(cfg)
}

func TestDemo_RunsExampleSequence(t *testing.T) {
	isolateHome(t)

	out, err := run(t, "demo")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ User: Jane Smith (jane.smith@example.com)")
	assert.Contains(t, out, "✓ Order created with ID: 1001")
	assert.Contains(t, out, "✓ Order: Amazing Widget, $149.99")
	assert.Contains(t, out, "✓ Order deleted")
}

func TestConfig_SetThenShow(t *testing.T) {
	home := isolateHome(t)

	_, err := run(t, "config", "set", "server", "localhost:7070")
	require.NoError(t, err)
	_, err = run(t, "config", "set", "output", "text")
	require.NoError(t, err)

	out, err := run(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(home, ".mediator", "config.json"))
	assert.Contains(t, out, "localhost:7070")
	assert.Contains(t, out, "Output:           text")
	assert.Contains(t, out, "Timeout:          (not set)")
}

func TestConfig_SetRejectsUnknownKey(t *testing.T) {
	isolateHome(t)

	_, err := run(t, "config", "set", "colour", "blue")

	assert.ErrorContains(t, err, "unknown setting")
}

func TestConfig_ShowMasksDatabasePassword(t *testing.T) {
	isolateHome(t)
	t.Setenv("DATABASE_URL", "postgres://mediator:secret@db:5432/mediator")
	t.Setenv("MED_DATABASE_TYPE", "postgres")

	out, err := run(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "postgres://mediator:xxxxx@db:5432/mediator")
	assert.NotContains(t, out, "secret")
}

func TestSend_CreateAndGetOrder(t *testing.T) {
	isolateHome(t)
	server := startDaemon(t)

	out, err := run(t, "--server", server, "send", "create.order.command",
		`{"product_name":"Amazing Widget","price":149.99}`)
	require.NoError(t, err)
	assert.JSONEq(t, `1001`, out)

	out, err = run(t, "--server", server, "send", "get.order.query", "-p", `{"order_id":1001}`)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Amazing Widget", got["product_name"])
}

func TestSend_TextOutput(t *testing.T) {
	isolateHome(t)
	server := startDaemon(t)

	_, err := run(t, "--server", server, "send", "create.user.command",
		`{"name":"Jane Smith","email":"jane.smith@example.com"}`)
	require.NoError(t, err)

	out, err := run(t, "--server", server, "-o", "text", "send", "get.user.query", `{"user_id":1}`)

	require.NoError(t, err)
	assert.Equal(t, "email: jane.smith@example.com\nid: 1\nname: Jane Smith\n", out)
}

func TestSend_ReportsStatusCode(t *testing.T) {
	isolateHome(t)
	server := startDaemon(t)

	_, err := run(t, "--server", server, "send", "launch.rocket.command", `{}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotFound")
}

func TestSend_PayloadGivenTwice(t *testing.T) {
	isolateHome(t)

	_, err := run(t, "send", "get.order.query", `{}`, "-p", `{}`)

	assert.ErrorContains(t, err, "payload given twice")
}

func TestSend_InvalidPayload(t *testing.T) {
	isolateHome(t)

	_, err := run(t, "send", "get.order.query", `{not json`)

	assert.ErrorContains(t, err, "not valid JSON")
}

func TestTypes_ListsCatalog(t *testing.T) {
	isolateHome(t)
	server := startDaemon(t)

	out, err := run(t, "--server", server, "-o", "text", "types")

	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "get.order.query")
	assert.Contains(t, out, "delete.order.command")
	assert.Contains(t, out, "void")
}

func TestHealth_Serving(t *testing.T) {
	isolateHome(t)
	server := startDaemon(t)

	out, err := run(t, "--server", server, "health")

	require.NoError(t, err)
	assert.Contains(t, out, "✓ Daemon is healthy")
	assert.Contains(t, out, "SERVING")
}

func TestRoot_RejectsUnknownOutputFormat(t *testing.T) {
	isolateHome(t)

	_, err := run(t, "-o", "yaml", "health")

	assert.ErrorContains(t, err, "unsupported output format")
}

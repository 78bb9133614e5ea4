package grpc_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
	"github.com/andrescamacho/mediator-go/internal/application/orders"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

type daemonFixture struct {
	client  *grpcadapter.DaemonClient
	catalog *grpcadapter.Catalog
}

func startDaemon(t *testing.T, cfg config.DaemonConfig) *daemonFixture {
	t.Helper()

	repos := helpers.NewTestRepositories(t)
	c := services.NewCollection()
	require.NoError(t, setup.NewHandlerRegistry(repos.UserRepo, repos.OrderRepo).Register(c))
	provider := c.Build()
	t.Cleanup(func() { _ = provider.Close() })

	catalog, err := grpcadapter.NewCatalog(setup.Modules()...)
	require.NoError(t, err)

	errs := grpcadapter.NewErrorMapper().
		Map(order.ErrNotFound, codes.NotFound).
		Map(user.ErrNotFound, codes.NotFound).
		Map(user.ErrEmailTaken, codes.AlreadyExists)
	service := grpcadapter.NewDispatcherService(provider, catalog, cfg.DispatchTimeout, errs)
	server := grpcadapter.NewDaemonServer(cfg, service, nil)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client, err := grpcadapter.NewDaemonClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return &daemonFixture{client: client, catalog: catalog}
}

func defaultDaemonConfig() config.DaemonConfig {
	cfg := config.Default().Daemon
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestDispatch_CreateAndGetOrder(t *testing.T) {
	// Arrange
	d := startDaemon(t, defaultDaemonConfig())
	ctx := context.Background()

	// Act
	created, requestID, err := d.client.DispatchWithID(ctx, "create.order.command",
		json.RawMessage(`{"product_name":"Amazing Widget","price":149.99}`))
	require.NoError(t, err)
	got, err := d.client.Dispatch(ctx, "get.order.query", json.RawMessage(`{"order_id":1001}`))
	require.NoError(t, err)

	// Assert
	assert.JSONEq(t, `1001`, string(created))
	assert.NotEmpty(t, requestID)

	var o order.Order
	require.NoError(t, json.Unmarshal(got, &o))
	assert.Equal(t, 1001, o.ID)
	assert.Equal(t, "Amazing Widget", o.ProductName)
}

func TestDispatch_VoidRequestReturnsNull(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())

	result, err := d.client.Dispatch(context.Background(), "create.user.command",
		json.RawMessage(`{"name":"Jane Smith","email":"jane.smith@example.com"}`))

	require.NoError(t, err)
	assert.Equal(t, "null", string(result))
}

func TestDispatch_ErrorCodes(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())
	ctx := context.Background()

	tests := []struct {
		name     string
		typeName string
		payload  string
		code     codes.Code
	}{
		{"unknown type", "launch.rocket.command", `{}`, codes.NotFound},
		{"missing type", "", `{}`, codes.InvalidArgument},
		{"validation failure", "create.order.command", `{"price":1}`, codes.InvalidArgument},
		{"unknown field", "get.order.query", `{"order_id":1,"extra":true}`, codes.InvalidArgument},
		{"domain not found", "get.order.query", `{"order_id":456}`, codes.NotFound},
		{"bad email", "create.user.command", `{"name":"x","email":"nope"}`, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.client.Dispatch(ctx, tt.typeName, json.RawMessage(tt.payload))

			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err), status.Convert(err).Message())
		})
	}
}

func TestDispatch_DomainErrorMapping(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())
	ctx := context.Background()
	payload := json.RawMessage(`{"name":"Jane","email":"jane@example.com"}`)
	_, err := d.client.Dispatch(ctx, "create.user.command", payload)
	require.NoError(t, err)

	_, err = d.client.Dispatch(ctx, "create.user.command", payload)

	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "email already registered")
}

func TestListTypes(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())

	types, err := d.client.ListTypes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []grpcadapter.TypeInfo{
		{Name: "create.order.command", Void: false},
		{Name: "create.user.command", Void: true},
		{Name: "delete.order.command", Void: true},
		{Name: "get.order.query", Void: false},
		{Name: "get.user.query", Void: false},
	}, types)
}

func TestHealth(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())

	state, err := d.client.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "SERVING", state)
}

func TestRateLimit(t *testing.T) {
	cfg := defaultDaemonConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 0.001, Burst: 1}
	d := startDaemon(t, cfg)
	ctx := context.Background()

	_, err := d.client.ListTypes(ctx)
	require.NoError(t, err)
	_, err = d.client.ListTypes(ctx)

	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestRemoteSender_RoundTrip(t *testing.T) {
	// Arrange
	d := startDaemon(t, defaultDaemonConfig())
	sender := grpcadapter.NewRemoteSender(d.client, d.catalog)
	ctx := context.Background()

	// Act
	id, err := mediator.Send(ctx, sender, orders.CreateOrderCommand{ProductName: "Gadget", Price: 5})
	require.NoError(t, err)
	got, err := mediator.Send(ctx, sender, orders.GetOrderQuery{OrderID: id})
	require.NoError(t, err)
	err = mediator.SendVoid(ctx, sender, orders.DeleteOrderCommand{OrderID: id})
	require.NoError(t, err)
	_, err = mediator.Send(ctx, sender, orders.GetOrderQuery{OrderID: id})

	// Assert
	assert.Equal(t, order.FirstID, id)
	assert.Equal(t, "Gadget", got.ProductName)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRemoteSender_RejectsUncataloguedRequests(t *testing.T) {
	d := startDaemon(t, defaultDaemonConfig())
	sender := grpcadapter.NewRemoteSender(d.client, d.catalog)

	_, err := sender.Dispatch(context.Background(), struct{ X int }{1})
	assert.ErrorIs(t, err, grpcadapter.ErrUnknownType)

	_, err = sender.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, mediator.ErrNilRequest)
}

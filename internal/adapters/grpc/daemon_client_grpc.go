package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// TypeInfo describes one request type offered by the daemon
type TypeInfo struct {
	Name string `json:"name"`
	Void bool   `json:"void"`
}

// DaemonClient calls a dispatch daemon over gRPC
type DaemonClient struct {
	conn *grpc.ClientConn
}

// Target returns the dial target for the daemon described by cfg
func Target(cfg config.DaemonConfig) string {
	network, address := cfg.Network()
	if network == "unix" {
		return "unix:" + address
	}
	return address
}

// NewDaemonClient connects to target, e.g. "unix:/tmp/mediator-daemon.sock"
// or "localhost:7070". Extra options are appended to the defaults.
func NewDaemonClient(target string, opts ...grpc.DialOption) (*DaemonClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", target, err)
	}
	return &DaemonClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Dispatch sends a request by wire name with a JSON payload and returns the
// JSON result. Void requests return "null".
func (c *DaemonClient) Dispatch(ctx context.Context, typeName string, payload json.RawMessage) (json.RawMessage, error) {
	result, _, err := c.dispatch(ctx, typeName, payload)
	return result, err
}

// DispatchWithID is Dispatch that also returns the request ID assigned by
// the daemon
func (c *DaemonClient) DispatchWithID(ctx context.Context, typeName string, payload json.RawMessage) (json.RawMessage, string, error) {
	return c.dispatch(ctx, typeName, payload)
}

func (c *DaemonClient) dispatch(ctx context.Context, typeName string, payload json.RawMessage) (json.RawMessage, string, error) {
	fields := map[string]any{"type": typeName}
	if len(payload) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, "", fmt.Errorf("payload must be a JSON object: %w", err)
		}
		fields["payload"] = obj
	}

	envelope, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build envelope: %w", err)
	}

	var header metadata.MD
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, DispatchMethod, envelope, out, grpc.Header(&header)); err != nil {
		return nil, "", err
	}

	var requestID string
	if values := header.Get(RequestIDHeader); len(values) > 0 {
		requestID = values[0]
	}

	result, err := json.Marshal(out.GetFields()["result"].AsInterface())
	if err != nil {
		return nil, requestID, fmt.Errorf("failed to decode result: %w", err)
	}
	return result, requestID, nil
}

// ListTypes returns the request types the daemon can dispatch
func (c *DaemonClient) ListTypes(ctx context.Context) ([]TypeInfo, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ListTypesMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}

	data, err := json.Marshal(out.GetFields()["types"].AsInterface())
	if err != nil {
		return nil, err
	}
	var types []TypeInfo
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to decode types: %w", err)
	}
	return types, nil
}

// Health returns the serving status of the Dispatcher service
func (c *DaemonClient) Health(ctx context.Context) (string, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return "", err
	}
	return resp.GetStatus().String(), nil
}

// RemoteSender is a mediator.Sender that dispatches through a daemon.
// Requests and responses are converted with the catalog.
type RemoteSender struct {
	client  *DaemonClient
	catalog *Catalog
}

// NewRemoteSender creates a sender for the request types in catalog
func NewRemoteSender(client *DaemonClient, catalog *Catalog) *RemoteSender {
	return &RemoteSender{client: client, catalog: catalog}
}

func (s *RemoteSender) Dispatch(ctx context.Context, request any) (any, error) {
	if request == nil {
		return nil, mediator.ErrNilRequest
	}
	entry, err := s.catalog.EntryFor(request)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", entry.Name, err)
	}

	result, err := s.client.Dispatch(ctx, entry.Name, payload)
	if err != nil {
		return nil, err
	}
	return entry.DecodeResponse(result)
}

func (s *RemoteSender) DispatchVoid(ctx context.Context, request mediator.VoidRequest) error {
	_, err := s.Dispatch(ctx, request)
	return err
}

var _ mediator.Sender = (*RemoteSender)(nil)

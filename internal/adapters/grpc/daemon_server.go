package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

// DaemonServer serves the Dispatcher service and the standard health
// service
type DaemonServer struct {
	grpcServer      *grpc.Server
	health          *health.Server
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// NewDaemonServer creates a server for service configured by cfg
func NewDaemonServer(cfg config.DaemonConfig, service DispatcherServer, logger *zap.Logger) *DaemonServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		requestIDInterceptor(logger),
		loggingInterceptor(),
		rateLimitInterceptor(limiter),
	))

	RegisterDispatcherServer(grpcServer, service)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &DaemonServer{
		grpcServer:      grpcServer,
		health:          healthServer,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Listen opens the listener described by cfg. A unix socket left over from
// a previous run is replaced and the new one is restricted to the owner.
func Listen(cfg config.DaemonConfig) (net.Listener, error) {
	network, address := cfg.Network()

	if network == "unix" {
		if err := os.RemoveAll(address); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %w", err)
		}
	}

	listener, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s %s: %w", network, address, err)
	}

	if network == "unix" {
		if err := os.Chmod(address, 0o600); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
	}
	return listener, nil
}

// Serve handles requests on listener until ctx is cancelled, then drains
// in-flight calls for up to the shutdown timeout
func (s *DaemonServer) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("daemon server listening",
		zap.String("network", listener.Addr().Network()),
		zap.String("address", listener.Addr().String()))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.grpcServer.Serve(listener)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("initiating graceful shutdown of gRPC server")
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case <-stopped:
	case <-time.After(timeout):
		s.logger.Warn("graceful shutdown timed out, forcing stop", zap.Duration("timeout", timeout))
		s.grpcServer.Stop()
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	"github.com/andrescamacho/mediator-go/internal/adapters/cache"
	grpcadapter "github.com/andrescamacho/mediator-go/internal/adapters/grpc"
	"github.com/andrescamacho/mediator-go/internal/adapters/messaging"
	"github.com/andrescamacho/mediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/mediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/database"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/logging"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ./config.yaml, ./configs, /etc/mediator)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging, "daemon")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		logger.Fatal("failed to acquire PID file lock", zap.String("path", pf.Path()), zap.Error(err))
	}
	defer func() {
		if err := pf.Release(); err != nil {
			logger.Warn("failed to release PID file", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("daemon stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("daemon stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// 1. Database
	logger.Info("connecting to database", zap.String("type", cfg.Database.Type))
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. Optional collaborators
	var opts []setup.Option

	if cfg.Cache.Enabled {
		client, err := cache.Connect(ctx, cfg.Cache)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts = append(opts, setup.WithOrderCache(cache.NewOrderCache(client, cfg.Cache.KeyPrefix, cfg.Cache.TTL)))
		logger.Info("order cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	if cfg.Messaging.Enabled {
		conn, err := messaging.Connect(cfg.Messaging.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		opts = append(opts, setup.WithEventPublisher(messaging.NewEventPublisher(conn, cfg.Messaging.SubjectPrefix)))
		logger.Info("publishing order events", zap.String("prefix", cfg.Messaging.SubjectPrefix))
	} else {
		opts = append(opts, setup.WithEventPublisher(messaging.NopPublisher{}))
	}

	observers := []mediator.Observer{logging.NewDispatchObserver(logger)}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewDispatchMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register dispatch metrics: %w", err)
		}
		observers = append(observers, collector)

		server, err := metrics.NewServer(cfg.Metrics, logger)
		if err != nil {
			return err
		}
		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}
	opts = append(opts, setup.WithObservers(observers...))

	// 3. Container
	registry := setup.NewHandlerRegistry(
		persistence.NewGormUserRepository(db),
		persistence.NewGormOrderRepository(db),
		opts...,
	)

	c := services.NewCollection()
	if err := services.AddInstance(c, mediator.NewWrapperCache()); err != nil {
		return err
	}
	if err := registry.Register(c); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	provider := c.Build()
	defer func() { _ = provider.Close() }()

	// 4. gRPC
	catalog, err := grpcadapter.NewCatalog(setup.Modules()...)
	if err != nil {
		return err
	}

	errs := grpcadapter.NewErrorMapper().
		Map(order.ErrNotFound, codes.NotFound).
		Map(user.ErrNotFound, codes.NotFound).
		Map(user.ErrEmailTaken, codes.AlreadyExists)

	service := grpcadapter.NewDispatcherService(provider, catalog, cfg.Daemon.DispatchTimeout, errs)
	server := grpcadapter.NewDaemonServer(cfg.Daemon, service, logger)

	if network, address := cfg.Daemon.Network(); network == "unix" {
		if err := os.MkdirAll(filepath.Dir(address), 0o755); err != nil {
			return fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	listener, err := grpcadapter.Listen(cfg.Daemon)
	if err != nil {
		return err
	}

	logger.Info("daemon is ready to accept connections", zap.Int("types", len(catalog.Entries())))
	return server.Serve(ctx, listener)
}

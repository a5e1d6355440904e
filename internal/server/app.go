// Package server wires configuration, storage, the proof engine and the
// gRPC transport into a runnable authentication server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/challenges"
	"github.com/dmitrijs2005/zkpauth/internal/server/config"
	"github.com/dmitrijs2005/zkpauth/internal/server/kv"
	"github.com/dmitrijs2005/zkpauth/internal/server/services"
	"github.com/dmitrijs2005/zkpauth/internal/server/users"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/zkpauth/internal/server/grpc"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// openStore picks the kv backend named by the config; the returned
// closer is nil for backends holding no resources.
var openStore = func(ctx context.Context, c *config.Config) (kv.Store, io.Closer, error) {
	switch c.StorageDriver {
	case config.StorageMemory:
		return kv.NewMemoryStore(), nil, nil
	case config.StoragePostgres:
		s, err := kv.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorageSQLite:
		s, err := kv.OpenSQLite(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorageS3:
		s, err := kv.OpenS3(ctx, kv.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	closer   io.Closer
	registry *challenges.Registry
	server   *gs.GRPCServer
}

// NewApp builds every server component from c. SQL backends are migrated
// before the app is returned.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.NewJSON(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	params := zkp.Default()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("group parameters: %w", err)
	}

	store, closer, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if m, ok := store.(migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			if closer != nil {
				_ = closer.Close()
			}
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	registry := challenges.NewRegistry(c.ChallengeTTL, challenges.WithLogger(logger))
	svc := services.NewAuthService(
		users.NewKVRepository(store),
		registry,
		zkp.NewEngine(params),
		auth.NewTokenIssuer(c.SecretKey, c.AccessTokenValidityDuration),
		logger,
	)

	return &App{
		config:   c,
		logger:   logger,
		closer:   closer,
		registry: registry,
		server:   gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves gRPC and sweeps expired challenges until ctx is done, a
// termination signal arrives, or either loop fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.server.Run(gctx)
	})

	g.Go(func() error {
		return app.registry.Run(gctx, 0)
	})

	err := g.Wait()

	if app.closer != nil {
		if cerr := app.closer.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("storage close error: %w", cerr))
		}
	}

	if err != nil {
		app.logger.Error(context.Background(), "app stopped with error", "error", err)
		return err
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}

// Package server initializes and runs the credkeeper server: it opens the
// credential store, wires the authentication core and serves it over gRPC
// and HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/auth"
	"github.com/dmitrijs2005/credkeeper/internal/server/config"
	gs "github.com/dmitrijs2005/credkeeper/internal/server/grpc"
	"github.com/dmitrijs2005/credkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/dmitrijs2005/credkeeper/internal/telemetry"
)

const serviceName = "credkeeper"

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	authService   *services.AuthService
	authenticator *auth.Authenticator
	shutdownOtel  func(context.Context) error
}

// NewApp validates c and builds every dependency. Misconfiguration (for
// example an empty JWT secret) is reported here, before anything listens.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewArgon2Hasher(c.Argon2Params())
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(c.SecretKey)
	if err != nil {
		return nil, err
	}

	shutdownOtel, err := telemetry.Setup(ctx, serviceName, c.OtelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		_ = shutdownOtel(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	repo := rm.Users()

	return &App{
		config:        c,
		logger:        logger,
		repos:         rm,
		authService:   services.NewAuthService(repo, hasher, tokens, logger),
		authenticator: auth.NewAuthenticator(tokens, repo),
		shutdownOtel:  shutdownOtel,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.authenticator)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.authenticator, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a signal arrives or one
// of the servers fails, then releases the store and flushes traces.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(shutdownCtx, "closing store", "error", err)
	}
	if err := app.shutdownOtel(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "flushing traces", "error", err)
	}

	app.logger.Info(shutdownCtx, "App stopped")
}

// Package httpapi serves the authentication API as JSON over HTTP on a chi
// router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type AuthService interface {
	Register(ctx context.Context, email, password, biometricKey string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	BiometricLogin(ctx context.Context, biometricKey string) (*services.AuthResult, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	handler         *Handler
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, svc AuthService, authn Authenticator, shutdownTimeout time.Duration) *HTTPServer {
	l = l.With("module", "http_server")
	return &HTTPServer{
		address:         a,
		logger:          l,
		handler:         NewHandler(svc, authn, l),
		shutdownTimeout: shutdownTimeout,
	}
}

// Router returns the fully wired chi router.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	s.handler.RegisterRoutes(r)
	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is cancelled. In-flight requests
// get shutdownTimeout to finish.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

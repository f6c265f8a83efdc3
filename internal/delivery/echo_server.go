package delivery

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain/lifecycle"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

// EchoServer serves an echo instance on all interfaces until fx stops it.
type EchoServer struct {
	name   string
	addr   string
	echo   *echo.Echo
	h2c    *http2.Server
	logger *slog.Logger
}

// EchoOption tweaks an EchoServer before it starts.
type EchoOption func(*EchoServer)

// WithH2C accepts cleartext HTTP/2 next to HTTP/1.1.
func WithH2C(idleTimeout time.Duration) EchoOption {
	return func(s *EchoServer) {
		s.h2c = &http2.Server{IdleTimeout: idleTimeout}
	}
}

// NewEchoServer registers a graceful shutdown hook on lc.
func NewEchoServer(lc fx.Lifecycle, logger *slog.Logger, name string, port int, e *echo.Echo, opts ...EchoOption) *EchoServer {
	s := &EchoServer{
		name:   name,
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(port)),
		echo:   e,
		logger: logger.With(slog.String("server", name)),
	}
	for _, opt := range opts {
		opt(s)
	}

	lc.Append(fx.Hook{OnStop: s.shutdown})

	return s
}

func (s *EchoServer) Serve(context.Context) error {
	s.logger.Info("Starting HTTP server", slog.String("addr", s.addr), slog.Bool("h2c", s.h2c != nil))

	var err error
	if s.h2c != nil {
		err = s.echo.StartH2CServer(s.addr, s.h2c)
	} else {
		err = s.echo.Start(s.addr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "%s server", s.name)
	}

	return nil
}

func (s *EchoServer) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.echo.Shutdown(ctx))
}

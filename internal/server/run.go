package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown when none is configured.
const DefaultShutdownTimeout = 10 * time.Second

// ListenConfig names the listener addresses.
type ListenConfig struct {
	Addr string
	// MetricsAddr serves /metrics and /healthz on a separate listener when
	// set.
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// Run listens on the configured addresses and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg ListenConfig) error {
	api, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	var admin net.Listener
	if cfg.MetricsAddr != "" {
		if admin, err = net.Listen("tcp", cfg.MetricsAddr); err != nil {
			api.Close()
			return err
		}
	}
	return s.Serve(ctx, api, admin, cfg.ShutdownTimeout)
}

// Serve serves the API on api and, when admin is non-nil, the admin
// endpoints on admin. It returns once both servers have stopped.
func (s *Server) Serve(ctx context.Context, api, admin net.Listener, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	type listener struct {
		name string
		ln   net.Listener
		srv  *http.Server
	}
	listeners := []listener{{"api", api, &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}}}
	if admin != nil {
		listeners = append(listeners, listener{"admin", admin, &http.Server{Handler: s.adminHandler(), ReadHeaderTimeout: 5 * time.Second}})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		g.Go(func() error {
			s.logger.Info("listening", "server", l.name, "addr", l.ln.Addr().String())
			if err := l.srv.Serve(l.ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, l := range listeners {
			errs = append(errs, l.srv.Shutdown(sctx))
		}
		return stderrors.Join(errs...)
	})
	return g.Wait()
}

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/internal/server"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve the layout API.

Owners authenticate with a bearer token signed with server.jwt_secret (see
'seatmap token'). Anonymous callers may read and render layouts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			st, cfg, err := c.layoutStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}
			if metricsAddr != "" {
				cfg.Server.MetricsAddr = metricsAddr
			}
			if cfg.Server.JWTSecret == "" {
				logger.Warn("no jwt secret configured, serving read-only")
			}

			metrics := server.NewMetrics()
			metrics.Install()

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithAuthenticator(server.NewAuthenticator(cfg.Server.JWTSecret)),
				server.WithMetrics(metrics),
				server.WithRequestTimeout(cfg.Server.RequestTimeout),
			}
			if isRemote(cfg.IconURL) {
				loader, release := newIconLoader(cfg.IconURL, false)
				defer release()
				opts = append(opts, server.WithIcon(loader, cfg.IconURL))
			}

			logger.Info("starting server", "store", cfg.Store.Backend, "addr", cfg.Server.Addr)
			return server.New(st, opts...).Run(ctx, server.ListenConfig{
				Addr:            cfg.Server.Addr,
				MetricsAddr:     cfg.Server.MetricsAddr,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "API listen address (default from config, :8080)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "admin listen address for /metrics and /healthz")
	return cmd
}

// tokenCommand issues API bearer tokens.
func (c *CLI) tokenCommand() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long: `Issue a bearer token for the HTTP API, signed with server.jwt_secret.

Owner tokens carry the configured owner id as subject. Guest tokens may only
read and render layouts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			owner := ""
			if role == server.RoleOwner {
				if owner, err = requireOwner(cfg); err != nil {
					return err
				}
			}
			tok, err := server.NewAuthenticator(cfg.Server.JWTSecret).Issue(owner, role, ttl)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(tok + "\n"))
			return err
		},
	}

	cmd.Flags().StringVar(&role, "role", server.RoleOwner, "token role: owner or guest")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

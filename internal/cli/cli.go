// Package cli implements the seatmap command-line interface.
//
// Commands:
//   - save, load, list, delete: manage stored layouts
//   - render: draw a layout to SVG or JSON
//   - edit: interactive terminal editor with mouse drag and wheel zoom
//   - serve: run the HTTP API
//   - token: issue API bearer tokens
//   - config, cache, completion: housekeeping
//
// Every command accepts --verbose for debug logging, --config to point at a
// config file, and --store / --owner to override the configured backend
// and club id. The logger travels on the command context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/buildinfo"
	"github.com/matzehuels/seatmap/pkg/config"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "seatmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backend    string
	owner      string
	verbose    bool

	cfg *config.Config

	// openStore is replaced in tests.
	openStore func(ctx context.Context, cfg store.Config) (store.Store, error)
}

// New creates a CLI that logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		openStore: func(ctx context.Context, cfg store.Config) (store.Store, error) {
			return store.Open(ctx, cfg)
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Seatmap lays out venue tables on a floor plan",
		Long:          `Seatmap arranges, renders and stores table layouts for venues: drag tables around a floor plan, render it for reservation or guest displays, and serve layouts over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), commandLogger(c.Logger, cmd.Name())))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seatmap/config.toml)")
	flags.StringVar(&c.backend, "store", "", "layout store backend: file, memory or mongo")
	flags.StringVar(&c.owner, "owner", "", "club id to act for")

	root.AddCommand(c.saveCommand())
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tokenCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared setup
// =============================================================================

// settings loads the config once and applies the command-line overrides.
func (c *CLI) settings() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.owner != "" {
		cfg.Owner = c.owner
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// layoutStore opens the configured layout store. The caller closes it.
func (c *CLI) layoutStore(ctx context.Context) (store.Store, *config.Config, error) {
	cfg, err := c.settings()
	if err != nil {
		return nil, nil, err
	}
	sc := cfg.StoreConfig()
	if sc.Backend == store.BackendMemory {
		loggerFromContext(ctx).Warn("memory store selected, layouts are lost when the command exits")
	}
	loggerFromContext(ctx).Debug("opening layout store", "backend", sc.Backend)
	st, err := c.openStore(ctx, sc)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// requireOwner returns the configured owner id.
func requireOwner(cfg *config.Config) (string, error) {
	if cfg.Owner == "" {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"no owner configured: pass --owner, set SEATMAP_OWNER or add owner to the config file")
	}
	return cfg.Owner, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the asset cache directory using XDG standard (~/.cache/seatmap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

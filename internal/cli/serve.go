package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antscheduler/internal/server"
	"github.com/matzehuels/antscheduler/pkg/config"
)

// serveCommand creates the serve command that exposes the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath    string
		addr          string
		maxConcurrent int
		limits        = server.DefaultLimits
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling HTTP API",
		Long: `Serve the scheduling HTTP API.

Search parameters in the configuration file become the defaults for
requests. Without a configured store, runs are kept in memory until the
server exits. Requests over the --max-* limits are rejected with 400.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Store.Backend == config.StoreNone {
				cfg.Store.Backend = config.StoreMemory
			}
			return c.runServe(cmd.Context(), cfg, addr, maxConcurrent, limits)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (.toml, .yaml)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", server.DefaultMaxConcurrent, "searches running at once")
	cmd.Flags().IntVar(&limits.Operations, "max-operations", limits.Operations, "largest graph a request may send (0 disables)")
	cmd.Flags().IntVar(&limits.Ants, "max-ants", limits.Ants, "largest ants value a request may set (0 disables)")
	cmd.Flags().IntVar(&limits.Iterations, "max-iterations", limits.Iterations, "largest iterations value a request may set (0 disables)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.File, addr string, maxConcurrent int, limits server.Limits) error {
	logger := loggerFromContext(ctx)

	defaults, err := cfg.SearchConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.Background())

	api := server.New(runner, runner.Store, defaults, logger,
		server.WithMaxConcurrent(maxConcurrent),
		server.WithLimits(limits),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	printDetail("cache: %s · store: %s", cfg.Cache.Backend, cfg.Store.Backend)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package cli implements the antscheduler command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/antscheduler/pkg/buildinfo"
	"github.com/matzehuels/antscheduler/pkg/cache"
	"github.com/matzehuels/antscheduler/pkg/config"
	"github.com/matzehuels/antscheduler/pkg/pipeline"
	"github.com/matzehuels/antscheduler/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "antscheduler"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Schedule precedence-constrained operations with ant colony optimization",
		Long: `antscheduler orders operations that depend on each other so that the
schedule finishes as early as possible. Operations run on exclusive resources;
an ant colony search explores topological orderings and keeps the one with the
smallest makespan.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.runCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the cache and store named by cfg.
func (c *CLI) newRunner(ctx context.Context, cfg config.File, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	st, err := newStore(ctx, cfg)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.File, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	hooks := logCacheHooks{logger: c.Logger}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return cache.WithHooks(rc, hooks), nil
	case config.CacheNone:
		return cache.NewNullCache(), nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.WithHooks(fc, hooks), nil
}

// newStore opens the run store named by cfg, or returns nil when disabled.
func newStore(ctx context.Context, cfg config.File) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMongo:
		st, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
		return st, nil
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	}
	return nil, nil
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (config.File, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/antscheduler/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path for artifacts. An empty output uses
// the input path without its extension; a known artifact extension on
// output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range pipeline.FormatExt {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifacts writes every rendered format next to base.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) error {
	for _, f := range formats {
		path := base + pipeline.FormatExt[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// logCacheHooks reports cache traffic at debug level.
type logCacheHooks struct {
	logger *log.Logger
}

func (h logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache write", "kind", keyType, "bytes", size)
}

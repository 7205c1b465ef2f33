package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/antscheduler/pkg/aco"
	"github.com/matzehuels/antscheduler/pkg/config"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	"github.com/matzehuels/antscheduler/pkg/pipeline"
)

// runCommand creates the run command, the main entry point for scheduling.
func (c *CLI) runCommand() *cobra.Command {
	var (
		configPath string
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		tui        bool
		search     searchFlags
	)

	cmd := &cobra.Command{
		Use:   "run [graph.csv|graph.json]",
		Short: "Search for a short schedule of a precedence graph",
		Long: `Search for a short schedule of a precedence graph.

The graph is read from the argument or from graph_file in the configuration
file. CSV rows are: name,duration,resource,"pred1 pred2 ...". Search
parameters come from the configuration file; flags override them.

Solved runs are cached by graph content, parameters and seed, so repeating a
run is instant. Use --refresh to search again.`,
		Example: `  antscheduler run jobs.csv
  antscheduler run -c antscheduler.toml --tui
  antscheduler run jobs.csv -a MaxMinAntSystem -n 500 --stagnation 50 -f gantt,json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			search.apply(cmd, &cfg)
			if len(args) == 1 {
				cfg.GraphFile = args[0]
			}
			if cfg.GraphFile == "" {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "no graph file (pass one or set graph_file in the config)")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			searchCfg, err := cfg.SearchConfig()
			if err != nil {
				return err
			}
			ttl, err := cfg.CacheTTL()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				GraphFile: cfg.GraphFile,
				Search:    searchCfg,
				Formats:   parseFormats(formatsStr),
				Refresh:   refresh,
				CacheTTL:  ttl,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runSearch(cmd.Context(), cfg.GraphFile, opts, runOutput{
				output:  output,
				noCache: noCache,
				tui:     tui,
			}, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (.toml, .yaml)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "artifacts to write: json, dot, graph, gantt, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "base path for artifacts (default: input path without extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&tui, "tui", false, "show live search progress")
	search.register(cmd)

	return cmd
}

type runOutput struct {
	output  string
	noCache bool
	tui     bool
}

func (c *CLI) runSearch(ctx context.Context, input string, opts pipeline.Options, out runOutput, cfg config.File) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.Background())

	prog := newProgress(logger)
	var res *pipeline.Result
	if out.tui {
		// Keep log lines from tearing the progress view.
		opts.Logger = newLogger(os.Stderr, log.ErrorLevel)
		res, err = runWithTUI(ctx, runner, opts)
		if err == nil {
			logger.Info("result history", "makespans", res.Run.History)
			logger.Info("best path", "makespan", res.Run.Makespan, "order", pipeline.BestPath(res.Run.Order))
		}
	} else {
		opts.Logger = logger
		res, err = runner.Execute(ctx, opts)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scheduled %s", input))

	fmt.Println()
	printStats(res.Stats.Operations, res.Stats.Edges, res.CacheInfo.SolveHit)
	fmt.Println()
	printRun(res.Run)

	if res.Run.Stop == string(aco.StopCanceled) {
		printWarning("Search was interrupted; showing the best schedule found so far")
	}

	if len(opts.Formats) > 0 {
		fmt.Println()
		printSuccess("Wrote %d artifact(s)", len(opts.Formats))
		if err := writeArtifacts(res.Artifacts, opts.Formats, basePath(out.output, input)); err != nil {
			return err
		}
	}
	if res.RecordID != "" {
		fmt.Println()
		printNextStep("Show this run again", fmt.Sprintf("%s history show %s", appName, res.RecordID))
	}
	return nil
}

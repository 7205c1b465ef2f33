package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antscheduler/pkg/config"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	"github.com/matzehuels/antscheduler/pkg/store"
)

// historyCommand creates the history command for browsing stored runs.
func (c *CLI) historyCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored runs",
		Long: `Browse runs saved to the run store.

Requires a persistent store, e.g. in the configuration file:

  [store]
  backend = "mongo"
  mongo_uri = "mongodb://localhost:27017"`,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (.toml, .yaml)")

	cmd.AddCommand(c.historyListCommand(&configPath))
	cmd.AddCommand(c.historyShowCommand(&configPath))

	return cmd
}

func (c *CLI) historyListCommand(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openHistory(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No stored runs")
				return nil
			}
			fmt.Println(runsTable(recs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", store.DefaultListLimit, "maximum number of runs")
	return cmd
}

func (c *CLI) historyShowCommand(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !store.ValidID(args[0]) {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid run id %q", args[0])
			}
			st, err := openHistory(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			printKeyValue("id", rec.ID)
			printKeyValue("created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("source", rec.Source)
			printKeyValue("graph", fmt.Sprintf("%s (%d operations)", rec.GraphHash[:min(12, len(rec.GraphHash))], rec.Operations))
			printRun(rec.Run)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored record as JSON")
	return cmd
}

// openHistory opens the persistent run store named by the configuration.
func openHistory(ctx context.Context, configPath string) (store.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend != config.StoreMongo {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "history needs a persistent run store (store backend %q keeps nothing between runs)", cfg.Store.Backend)
	}
	return newStore(ctx, cfg)
}

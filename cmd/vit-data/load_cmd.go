package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/vitstation/modules/voting/infrastructure/persistence"
	"github.com/iota-uz/vitstation/modules/voting/services"
	"github.com/iota-uz/vitstation/pkg/configuration"
	"github.com/iota-uz/vitstation/pkg/metrics"
)

type loadOptions struct {
	root   *rootOptions
	dryRun bool
}

func newLoadCmd(root *rootOptions) *cobra.Command {
	opts := &loadOptions{root: root}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load governance data from CSV/XLSX files into a store file",
	}
	cmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "Decode, validate and resolve the inputs without touching the store")

	cmd.AddCommand(newLoadAllCmd(opts))
	cmd.AddCommand(newLoadVotesCmd(opts))
	return cmd
}

func newLoadAllCmd(opts *loadOptions) *cobra.Command {
	var in services.LoadAllInput

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Load funds, voteplans, proposals, challenges, reviews and goals as one unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range []struct{ flag, value string }{
				{"funds", in.Funds},
				{"voteplans", in.Voteplans},
				{"proposals", in.Proposals},
				{"challenges", in.Challenges},
				{"reviews", in.Reviews},
				{"goals", in.Goals},
			} {
				if strings.TrimSpace(f.value) == "" {
					return withCode(exitUsage, fmt.Errorf("--%s is required", f.flag))
				}
			}
			return runLoad(cmd, opts, func(imp *services.Importer) (*services.Result, error) {
				return imp.LoadAll(cmd.Context(), in)
			})
		},
	}

	cmd.Flags().StringVar(&in.Funds, "funds", "", "Funds file; the first row is the current fund (required)")
	cmd.Flags().StringVar(&in.Voteplans, "voteplans", "", "Voteplans file (required)")
	cmd.Flags().StringVar(&in.Proposals, "proposals", "", "Proposals file (required)")
	cmd.Flags().StringVar(&in.Challenges, "challenges", "", "Challenges file (required)")
	cmd.Flags().StringVar(&in.Reviews, "reviews", "", "Community advisor reviews file (required)")
	cmd.Flags().StringVar(&in.Goals, "goals", "", "Goals file (required)")
	return cmd
}

func newLoadVotesCmd(opts *loadOptions) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "votes",
		Short: "Load every vote file found directly in a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(folder) == "" {
				return withCode(exitUsage, fmt.Errorf("--folder is required"))
			}
			return runLoad(cmd, opts, func(imp *services.Importer) (*services.Result, error) {
				return imp.LoadVotes(cmd.Context(), folder)
			})
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "Folder holding vote CSV/XLSX files (required)")
	return cmd
}

func runLoad(cmd *cobra.Command, opts *loadOptions, run func(imp *services.Importer) (*services.Result, error)) error {
	cfg := configuration.Use()
	dbPath, err := opts.root.dbPath(cfg)
	if err != nil {
		return err
	}

	imp := services.NewImporter(dbPath, persistence.Opener(cfg.Import.BatchSize), services.Options{
		BackupDir:  cfg.Import.BackupDir,
		KeepBackup: cfg.Import.KeepBackup,
		DryRun:     opts.dryRun,
		Logger:     cfg.Logger(),
	})
	res, runErr := run(imp)

	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		cfg.Logger().WithError(err).Warn("failed to write metrics textfile")
	}
	if res != nil {
		if err := writeJSONLine(cmd.OutOrStdout(), res); err != nil && runErr == nil {
			return err
		}
	}
	return runErr
}

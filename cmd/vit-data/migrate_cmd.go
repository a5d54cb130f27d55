package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/vitstation/modules/voting/infrastructure/persistence"
	"github.com/iota-uz/vitstation/pkg/configuration"
	"github.com/iota-uz/vitstation/pkg/snapshot"
)

type migrateSummary struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	DB      string `json:"db"`
	Created bool   `json:"created"`
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configuration.Use()
			path, err := root.dbPath(cfg)
			if err != nil {
				return err
			}

			created := false
			if err := snapshot.RequireFile(path); err != nil {
				if !create {
					return withCode(exitDB, err)
				}
				created = true
			}

			ctx := cmd.Context()
			db, err := persistence.Open(ctx, path)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer db.Close()

			if err := persistence.Migrate(ctx, db); err != nil {
				return withCode(exitDBWrite, fmt.Errorf("migrate %s: %w", path, err))
			}
			cfg.Logger().WithField("db", path).WithField("created", created).Info("schema up to date")
			return writeJSONLine(cmd.OutOrStdout(), migrateSummary{Status: "ok", Mode: "migrate", DB: path, Created: created})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "Create the store file when it does not exist")
	return cmd
}

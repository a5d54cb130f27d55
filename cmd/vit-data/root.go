package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/vitstation/modules/voting/infrastructure/persistence"
	"github.com/iota-uz/vitstation/pkg/configuration"
)

type rootOptions struct {
	dbURL string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "vit-data",
		Short:         "Governance data store import tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", "", "URL or path of the SQLite store file (default: $DATABASE_URL)")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.AddCommand(newLoadCmd(&opts))
	cmd.AddCommand(newMigrateCmd(&opts))
	return cmd
}

// dbPath resolves the store file from --db-url, falling back to DATABASE_URL.
func (o *rootOptions) dbPath(cfg *configuration.Configuration) (string, error) {
	url := strings.TrimSpace(o.dbURL)
	if url == "" {
		url = strings.TrimSpace(cfg.DatabaseURL)
	}
	if url == "" {
		return "", withCode(exitUsage, fmt.Errorf("--db-url is required (or set DATABASE_URL)"))
	}
	return persistence.DatabasePath(url), nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/ogurasousui/codex-org-chart/internal/platform/config"
	"github.com/ogurasousui/codex-org-chart/internal/platform/db/migration"
	"github.com/spf13/cobra"
)

const seedsTable = "schema_seeds"

type options struct {
	configPath    string
	migrationsDir string
	seedsDir      string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply database schema migrations",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runAction(opts, migration.ActionUp),
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flags.StringVar(&opts.migrationsDir, "dir", "", "directory containing migration files (defaults to database.migrations_dir)")
	flags.StringVar(&opts.seedsDir, "seeds-dir", "assets/seeds", "directory containing seed files")

	root.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: runAction(opts, migration.ActionUp)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", Args: cobra.NoArgs, RunE: runAction(opts, migration.ActionDown)},
		&cobra.Command{Use: "drop", Short: "Drop everything in the database", Args: cobra.NoArgs, RunE: runAction(opts, migration.ActionDrop)},
		&cobra.Command{Use: "version", Short: "Print the current schema version", Args: cobra.NoArgs, RunE: runAction(opts, migration.ActionVersion)},
		&cobra.Command{Use: "seed", Short: "Load the reference org chart", Args: cobra.NoArgs, RunE: runSeed(opts)},
	)

	return root
}

func runAction(opts *options, action migration.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ResolvePath(opts.configPath))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dir := opts.migrationsDir
		if dir == "" {
			dir = cfg.Database.MigrationsDir
		}

		res, err := migration.Run(action, dir, cfg.Database.DSN())
		if err != nil {
			return err
		}

		report(cmd, string(action), res)
		return nil
	}
}

func runSeed(opts *options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ResolvePath(opts.configPath))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dsn, err := migration.WithMigrationsTable(cfg.Database.DSN(), seedsTable)
		if err != nil {
			return err
		}

		res, err := migration.Run(migration.ActionUp, opts.seedsDir, dsn)
		if err != nil {
			return err
		}

		report(cmd, "seed", res)
		return nil
	}
}

func report(cmd *cobra.Command, action string, res migration.Result) {
	if !res.Applied {
		cmd.Printf("%s completed: no migration applied\n", action)
		return
	}
	cmd.Printf("%s completed: version=%d dirty=%t\n", action, res.Version, res.Dirty)
}

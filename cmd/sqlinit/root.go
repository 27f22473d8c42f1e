// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mdhender/sqlinit"
	"github.com/spf13/cobra"
)

// envPrefix is the prefix of environment variables loaded as properties.
const envPrefix = "SQLINIT_"

type options struct {
	config   string
	driver   string
	dsn      string
	poolDSN  string
	scripts  string
	prefix   string
	logLevel string
	logJSON  bool
	timeout  time.Duration
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sqlinit",
		Short:         "Initialize a datastore from SQL scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.config, "config", "", "YAML file with initialization properties")
	flags.StringVar(&opts.driver, "driver", "sqlite", "database/sql driver (sqlite, sqlite3, pgx, postgres, mysql)")
	flags.StringVar(&opts.dsn, "dsn", "", "data source name for the database/sql driver")
	flags.StringVar(&opts.poolDSN, "pool-dsn", "", "PostgreSQL connection string for a pgx pool; takes precedence over --dsn")
	flags.StringVar(&opts.scripts, "scripts", ".", "directory that classpath script locations resolve against")
	flags.StringVar(&opts.prefix, "prefix", sqlinit.DefaultPrefix, "property prefix")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log in JSON format")

	root.AddCommand(
		planCmd(opts),
		runCmd(opts),
		versionCmd(),
	)
	return root
}

func planCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show which initializers would be registered and why",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logJSON)
			_, report, err := configure(opts, logger)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Register initializers and run them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logJSON)
			reg, report, err := configure(opts, logger)
			if err != nil {
				return err
			}
			if len(report.Registered) == 0 {
				logger.Info("no initializers registered", "target", report.Target)
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()
			return sqlinit.Startup(ctx, reg, logger)
		},
	}
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "bound on script execution time")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sqlinit %s\n", sqlinit.Version())
		},
	}
}

// configure loads the properties, registers the datastore named by the
// flags and runs the decision procedure.
func configure(opts *options, logger *slog.Logger) (*sqlinit.Registry, *sqlinit.Report, error) {
	var sources []sqlinit.Source
	if opts.config != "" {
		sources = append(sources, sqlinit.FromYAMLFile(opts.config))
	}
	sources = append(sources, sqlinit.FromEnv(envPrefix))
	env, err := sqlinit.NewEnvironment(sources...)
	if err != nil {
		return nil, nil, err
	}

	reg, err := registerTargets(opts)
	if err != nil {
		return nil, nil, err
	}

	report, err := sqlinit.Configure(env, reg, sqlinit.Config{
		Prefix:    opts.prefix,
		Classpath: os.DirFS(opts.scripts),
		Logger:    logger,
	})
	if err != nil {
		return nil, report, err
	}
	return reg, report, nil
}

// registerTargets builds a registry holding the datastores named by the flags.
func registerTargets(opts *options) (*sqlinit.Registry, error) {
	reg := sqlinit.NewRegistry()
	if opts.poolDSN != "" {
		pool, err := sqlinit.NewPoolTarget(opts.poolDSN)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterPool("connectionPool", pool); err != nil {
			return nil, err
		}
	}
	if opts.dsn != "" {
		target, err := dataSourceTarget(opts.driver, opts.dsn)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterDataSource("dataSource", target); err != nil {
			return nil, err
		}
	}
	if opts.poolDSN == "" && opts.dsn == "" {
		return nil, errors.New("one of --dsn or --pool-dsn is required")
	}
	return reg, nil
}

func dataSourceTarget(driver, dsn string) (sqlinit.Target, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return sqlinit.NewSQLiteTarget(dsn)
	}
	return sqlinit.SQLTarget{Driver: driver, DSN: dsn}, nil
}

func printReport(w io.Writer, report *sqlinit.Report) {
	fmt.Fprint(w, report.String())
}

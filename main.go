// package main provides the entry point for the threat insight portal: the HTTP
// service, a one-shot report, dataset import into ArangoDB and synthetic data
// generation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/config"
	"github.com/threatinsight/portal-backend/database"
	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/internal/api"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/pipeline"
	"github.com/threatinsight/portal-backend/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "portal",
		Short:         "Cyber threat insight portal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default portal.yaml if present)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newGenerateCmd())

	return root
}

// setup loads the configuration and installs the global logger.
func setup(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	zap.ReplaceGlobals(database.InitLogger(cfg.Log.Level))
	return cfg, nil
}

// newSource returns the configured incident source, connecting to ArangoDB
// when that is where incidents live.
func newSource(ctx context.Context, cfg *config.Config) (pipeline.Source, error) {
	switch cfg.Data.Source {
	case config.SourceArangoDB:
		db, err := database.InitializeDatabase(ctx, cfg.DatabaseOptions())
		if err != nil {
			return nil, err
		}
		return pipeline.ArangoSource{DB: db}, nil
	default:
		return pipeline.FileSource{Path: cfg.Data.Path}, nil
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			src, err := newSource(ctx, cfg)
			if err != nil {
				return err
			}

			reg := metrics.DefaultRegistry()
			runner := &pipeline.Runner{Source: src, Config: cfg.TrainerConfig(), Metrics: reg}

			app, err := api.NewFiberApp(api.Options{
				AppName:     cfg.Server.AppName,
				ReadTimeout: cfg.Server.ReadTimeout,
				Metrics:     reg,
			}, runner.Run)
			if err != nil {
				return fmt.Errorf("create app: %w", err)
			}

			go func() {
				<-ctx.Done()
				zap.S().Info("Shutting down")
				if err := app.Shutdown(); err != nil {
					zap.S().Errorf("Shutdown failed: %v", err)
				}
			}()

			zap.S().Infof("Starting server on %s (data source: %s)", cfg.Server.Address, src.Name())
			zap.S().Infof("GraphQL endpoint available at /api/v1/graphql")
			return app.Listen(cfg.Server.Address)
		},
	}
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Train the models once and print statistics, model performance and findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := render.Format(format)
			if f != render.FormatTable && f != render.FormatJSON {
				return fmt.Errorf("invalid --format value %q: want table or json", format)
			}

			cfg, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			src, err := newSource(ctx, cfg)
			if err != nil {
				return err
			}
			s, err := pipeline.Run(ctx, src, cfg.TrainerConfig())
			if err != nil {
				return err
			}
			return render.New(f).Render(cmd.OutOrStdout(), s.Report())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatTable), "output format: table or json")
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Clean the dataset file and store it in ArangoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()
			if path == "" {
				path = cfg.Data.Path
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			table, err := dataset.Load(path)
			if err != nil {
				return err
			}
			db, err := database.InitializeDatabase(ctx, cfg.DatabaseOptions())
			if err != nil {
				return err
			}
			n, err := database.ImportIncidents(ctx, db, table.Incidents)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d incidents from %s into %s/%s\n", n, path, cfg.Database.Name, database.IncidentCollection)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "dataset file (default: data.path from the config)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		rows int
		seed uint64
		out  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic incident dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 1 {
				return fmt.Errorf("invalid --rows value %d: must be positive", rows)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create file: %w", err)
			}
			if err := dataset.WriteCSV(f, dataset.Generate(rows, seed)); err != nil {
				_ = f.Close()
				return fmt.Errorf("write dataset: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d incidents to %s\n", rows, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 3000, "number of incidents")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "clean_global_cybersecurity_threats.csv", "output file path")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/smartcity/hotspots/internal/config"
	"github.com/smartcity/hotspots/internal/generator"
	"github.com/smartcity/hotspots/internal/logger"
	"github.com/smartcity/hotspots/internal/report"
	"github.com/smartcity/hotspots/internal/repository/postgres"
	"github.com/smartcity/hotspots/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hotspots",
		Short:        "Traffic hotspot analysis for Bengaluru junctions",
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd(), newSeedCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var (
		xlsx   bool
		useDB  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analysis and print the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := setup()
			ctx := cmd.Context()

			repo, closeRepo, err := openRepository(ctx, cfg, useDB)
			if err != nil {
				return err
			}
			defer closeRepo()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Bengaluru Traffic Management System")
			fmt.Fprintln(out, "==================================")

			from, to := cfg.Window()
			svc := service.NewAnalysisService(repo, log, from, to, 0)
			r, err := svc.Analyze(ctx, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded data for %d traffic observations across %d days.\n", r.ObservationCount, cfg.GeneratorDays)
			fmt.Fprintf(out, "Identified %d traffic hotspots in Bengaluru.\n", len(r.Classification.Hotspots))

			if err := report.WriteDashboard(out, r); err != nil {
				return err
			}
			if err := report.WriteSummary(out, r); err != nil {
				return err
			}

			if !xlsx {
				return nil
			}
			body, err := report.NewExcelExporter(log).Export(r)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(cfg.ReportDir, "traffic_report.xlsx")
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("hotspots: failed to write %s: %w", output, err)
			}
			fmt.Fprintf(out, "Report saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "also export the report as an Excel workbook")
	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default $REPORT_DIR/traffic_report.xlsx)")
	cmd.Flags().BoolVar(&useDB, "db", false, "read observations from DATABASE_URL instead of generating them")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic observations and store them in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := setup()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("hotspots: DATABASE_URL is required for seeding")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("hotspots: failed to connect to database: %w", err)
			}
			defer pool.Close()

			repo := postgres.NewPostgresRepository(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}

			obs := generator.Generate(generatorConfig(cfg))
			n, err := repo.SaveObservations(ctx, obs)
			if err != nil {
				return err
			}
			log.Infof("Seeded %d observations starting %s", n, cfg.GeneratorStart.Format("2006-01-02"))
			return nil
		},
	}
}

func setup() (*config.Config, logger.Logger) {
	cfg, warnings := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	for _, w := range warnings {
		log.Debug(w)
	}
	return cfg, log
}

func generatorConfig(cfg *config.Config) generator.Config {
	return generator.Config{
		Days:  cfg.GeneratorDays,
		Start: cfg.GeneratorStart,
		Seed:  cfg.GeneratorSeed,
	}
}

func openRepository(ctx context.Context, cfg *config.Config, useDB bool) (service.ObservationRepository, func(), error) {
	if !useDB {
		return postgres.NewGeneratorRepository(generatorConfig(cfg)), func() {}, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("hotspots: --db requires DATABASE_URL")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("hotspots: failed to connect to database: %w", err)
	}
	return postgres.NewPostgresRepository(pool), pool.Close, nil
}

// Package cli provides the command-line interface for styleforge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"styleforge/internal/analysis"
	"styleforge/internal/config"
	"styleforge/internal/db"
	"styleforge/internal/llm"
	"styleforge/internal/metrics"
	"styleforge/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose  bool
	waitFlag bool

	// Global config, logger and db client
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	dbClient   *db.Client

	// Lazy-initialized LLM model and task machinery
	model     *llm.Model
	registry  *service.Registry
	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "styleforge",
	Short: "Writing style analysis and replication",
	Long: `Styleforge analyzes a writing corpus into a style fingerprint, derives
author personas from it, and generates and refines content conditioned on
that style.

Analysis, generation and refinement run as background tasks; the CLI waits
on them and renders progress.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		dbClient.SetMetrics(collector)

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		registry = service.NewRegistry(dbClient, logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// getServices creates services with lazy LLM initialization.
// Commands that only read stored records pass requireLLM=false.
func getServices(requireLLM bool) (*service.AnalysisService, *service.GenerationService, *service.PersonaService, error) {
	if requireLLM && model == nil {
		var err error
		model, err = llm.NewModel(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init model: %w", err)
		}
	}

	agg := analysis.NewAggregator(model, collector, logger)
	return service.NewAnalysisService(dbClient, agg, registry, logger),
		service.NewGenerationService(dbClient, model, registry, collector, logger),
		service.NewPersonaService(dbClient, model, logger), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&waitFlag, "wait", true, "render interactive progress while waiting for a task")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(personaCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(adherenceCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("styleforge %s\n", Version)
	},
}

// printMetrics dumps collected operation timings in verbose mode.
func printMetrics() {
	if !verbose {
		return
	}

	snap := collector.Snapshot()
	ops := []struct {
		name string
		op   *metrics.OperationSnapshot
	}{
		{metrics.OpLLMComplete, snap.LLMComplete},
		{metrics.OpAnalysis, snap.Analysis},
		{metrics.OpGeneration, snap.Generation},
		{metrics.OpRefinement, snap.Refinement},
		{metrics.OpDBQuery, snap.DBQuery},
	}
	for _, o := range ops {
		if o.op == nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %d calls, avg %.0fms (min %dms, max %dms)\n",
			o.name, o.op.Count, o.op.AvgTimeMs, o.op.MinTimeMs, o.op.MaxTimeMs)
	}
	if n := snap.Counters[metrics.CounterSchemaFallbacks]; n > 0 {
		fmt.Fprintf(os.Stderr, "schema fallbacks: %d\n", n)
	}
	if n := snap.Counters[metrics.CounterExtractionWarnings]; n > 0 {
		fmt.Fprintf(os.Stderr, "extraction warnings: %d\n", n)
	}
}

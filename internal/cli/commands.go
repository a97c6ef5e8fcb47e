package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantatsu/equiscope/config"
	"github.com/quantatsu/equiscope/internal/dataflows"
	"github.com/quantatsu/equiscope/internal/display"
	"github.com/quantatsu/equiscope/internal/llm"
	"github.com/quantatsu/equiscope/internal/memory"
	"github.com/quantatsu/equiscope/internal/models"
	"github.com/quantatsu/equiscope/internal/pipeline"
	"github.com/quantatsu/equiscope/internal/session"
)

const version = "0.3.1"

// NewRootCmd builds the equiscope command tree.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var manager *config.Manager

	rootCmd := &cobra.Command{
		Use:   "equiscope",
		Short: "Automated equity research reports from your terminal",
		Long: `EquiScope runs a research pipeline over a stock ticker: market data and
news are collected, scored for valuation, sentiment and risk, and folded
into a recommendation report. Reports are appended to a local memory bank
so past analyses stay queryable.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.NewManager(
				config.WithConfigPath(os.Getenv("EQUISCOPE_CONFIG")),
				config.WithInitialConfig(cfg),
			)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			manager = m

			merged := m.Get()
			merged.ApplyEnvOverrides()
			*cfg = merged
			return cfg.EnsureDirectories()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), cfg, manager)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newBatchCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// buildSystem wires the data providers, session manager and memory bank
// into a pipeline system.
func buildSystem(cfg *config.Config) (*pipeline.System, error) {
	bank, err := memory.NewBank(cfg.MemoryFile)
	if err != nil {
		return nil, fmt.Errorf("open memory bank: %w", err)
	}

	retry := &dataflows.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}

	newsPrimary := dataflows.NewNewsAPIClient(cfg.NewsAPIKey, cfg.DataDir, cfg.CallTimeout(), retry)
	newsFallback := dataflows.NewGoogleNewsScraper(cfg.DataDir, cfg.CallTimeout(), retry)
	news := dataflows.NewNewsService(newsPrimary, newsFallback)
	financials := dataflows.NewYahooFinanceClient(cfg.DataDir, cfg.CallTimeout(), retry)

	sysCfg := pipeline.SystemConfig{
		Sessions:         session.NewManager(cfg.SessionTimeout(), cfg.MaxSessions),
		Bank:             bank,
		News:             news,
		Financials:       financials,
		NewsLimit:        cfg.NewsLimit,
		BatchConcurrency: cfg.BatchSize,
	}

	if cfg.OpenAIAPIKey != "" {
		summarizer, err := llm.NewSummarizer(context.Background(), llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.SummaryModel,
		})
		if err != nil {
			log.Warn().Err(err).Msg("summarizer unavailable, reports will omit the research summary")
		} else {
			sysCfg.Summarizer = summarizer
		}
	}

	return pipeline.NewSystem(sysCfg), nil
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run the research pipeline for one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystem(cfg)
			if err != nil {
				return err
			}
			report, err := sys.ResearchSingle(cmd.Context(), args[0])
			if err != nil {
				if !errors.Is(err, models.ErrPersistenceFailed) {
					return fmt.Errorf("analyze %s: %w", args[0], err)
				}
				fmt.Printf("⚠️  Report not saved to history: %v\n", err)
			}
			fmt.Print(display.RenderReport(report))
			return nil
		},
	}
}

func newBatchCmd(cfg *config.Config) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch SYMBOL [SYMBOL...]",
		Short: "Analyze several tickers concurrently and compare them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency > 0 {
				cfg.BatchSize = concurrency
			}
			sys, err := buildSystem(cfg)
			if err != nil {
				return err
			}
			outcomes, summary, err := sys.ResearchBatch(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("batch run: %w", err)
			}
			fmt.Print(display.RenderBatch(outcomes, summary))
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "max tickers analyzed at once (default from config)")
	return cmd
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show stored analyses for a ticker, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := memory.NewBank(cfg.MemoryFile)
			if err != nil {
				return fmt.Errorf("open memory bank: %w", err)
			}
			ticker := dataflows.NormalizeSymbol(args[0])
			fmt.Print(display.RenderHistory(ticker, bank.Query(ticker, limit)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max entries to show (0 for all)")
	return cmd
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			if shown.OpenAIAPIKey != "" {
				shown.OpenAIAPIKey = "****"
			}
			if shown.NewsAPIKey != "" {
				shown.NewsAPIKey = "****"
			}
			data, err := json.MarshalIndent(&shown, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for invalid values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("✅ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("equiscope v%s\n", version)
		},
	}
}

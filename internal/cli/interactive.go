package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/lipgloss"

	"github.com/quantatsu/equiscope/config"
	"github.com/quantatsu/equiscope/internal/display"
	"github.com/quantatsu/equiscope/internal/models"
)

const (
	actionAnalyze = "Analyze a single stock"
	actionBatch   = "Compare several stocks"
	actionHistory = "Show past analyses"
	actionQuit    = "Quit"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7C3AED")).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7C3AED")).
	Padding(0, 3)

// runInteractive drives the prompt loop used when equiscope starts with no
// subcommand. External edits to the config file take effect on the next
// prompt iteration.
func runInteractive(ctx context.Context, cfg *config.Config, manager *config.Manager) error {
	fmt.Println(bannerStyle.Render("EquiScope | equity research from your terminal"))
	fmt.Println()

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	var pending atomic.Pointer[config.Config]
	if manager != nil {
		err := manager.Watch(ctx, func(next config.Config) {
			next.ApplyEnvOverrides()
			pending.Store(&next)
		})
		if err != nil {
			fmt.Printf("⚠️  Config watch unavailable: %v\n", err)
		}
	}

	for {
		if next := pending.Swap(nil); next != nil {
			rebuilt, err := buildSystem(next)
			if err != nil {
				fmt.Printf("⚠️  Config change ignored: %v\n", err)
			} else {
				*cfg = *next
				sys = rebuilt
				fmt.Println("🔄 Configuration reloaded")
			}
		}

		choice, err := promptForAction()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		switch choice {
		case actionAnalyze:
			ticker, err := promptForTicker()
			if err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					continue
				}
				return err
			}
			fmt.Printf("🔍 Analyzing %s...\n", ticker)
			report, err := sys.ResearchSingle(ctx, ticker)
			if err != nil && !errors.Is(err, models.ErrPersistenceFailed) {
				fmt.Printf("❌ Analysis failed: %v\n\n", err)
				continue
			}
			if err != nil {
				fmt.Printf("⚠️  Report not saved to history: %v\n", err)
			}
			fmt.Print(display.RenderReport(report))

		case actionBatch:
			tickers, err := promptForTickers()
			if err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					continue
				}
				return err
			}
			fmt.Printf("🔍 Analyzing %d tickers...\n", len(tickers))
			outcomes, summary, err := sys.ResearchBatch(ctx, tickers)
			if err != nil {
				fmt.Printf("❌ Batch run failed: %v\n\n", err)
				continue
			}
			fmt.Print(display.RenderBatch(outcomes, summary))

		case actionHistory:
			ticker, err := promptForTicker()
			if err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					continue
				}
				return err
			}
			fmt.Print(display.RenderHistory(ticker, sys.History(ticker, 0)))

		case actionQuit:
			fmt.Println("👋 Goodbye!")
			return nil
		}
	}
}

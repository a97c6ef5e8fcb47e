package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/memory"
	"github.com/quantatsu/equiscope/internal/models"
	"github.com/quantatsu/equiscope/internal/session"
)

// System wires the session manager, memory bank and pipeline stages into
// the operations the CLI calls. Every pipeline run happens inside a session;
// run contexts derive from the session context so closing a session cancels
// its in-flight work.
type System struct {
	Sessions *session.Manager
	Bank     *memory.Bank

	research *ResearchStage
	analyze  *AnalysisStage
	report   *ReportStage

	batchConcurrency int
}

// SystemConfig collects the System's collaborators and tuning knobs.
type SystemConfig struct {
	Sessions         *session.Manager
	Bank             *memory.Bank
	News             NewsFeedProvider
	Financials       FinancialDataProvider
	Summarizer       SummarizationService
	NewsLimit        int
	BatchConcurrency int
}

func NewSystem(cfg SystemConfig) *System {
	return &System{
		Sessions: cfg.Sessions,
		Bank:     cfg.Bank,
		research: &ResearchStage{
			News:       cfg.News,
			Financials: cfg.Financials,
			Summarizer: cfg.Summarizer,
			NewsLimit:  cfg.NewsLimit,
		},
		analyze:          NewAnalysisStage(),
		report:           NewReportStage(cfg.Bank),
		batchConcurrency: cfg.BatchConcurrency,
	}
}

// RunTicker executes the full pipeline for one ticker inside an existing
// session, refreshing the session's activity timestamp.
func (s *System) RunTicker(sess *session.Session, ticker string) (models.Report, error) {
	if err := s.Sessions.Touch(sess.ID); err != nil {
		return models.Report{}, err
	}

	record, err := s.research.Run(sess.Context(), ticker)
	if err != nil {
		return models.Report{}, err
	}
	result := s.analyze.Run(record)
	return s.report.Run(sess.ID, record, result)
}

// ResearchSingle analyzes one ticker in a fresh session that is closed when
// the run finishes.
func (s *System) ResearchSingle(ctx context.Context, ticker string) (models.Report, error) {
	sess, err := s.Sessions.Create(ctx)
	if err != nil {
		return models.Report{}, err
	}
	defer s.Sessions.Close(sess.ID)

	return s.RunTicker(sess, ticker)
}

// ResearchBatch analyzes the tickers concurrently in one shared session.
// Individual failures are reported per ticker; the call itself only fails
// when no session could be opened.
func (s *System) ResearchBatch(ctx context.Context, tickers []string) ([]models.TickerOutcome, models.BatchSummary, error) {
	sess, err := s.Sessions.Create(ctx)
	if err != nil {
		return nil, models.BatchSummary{}, err
	}
	defer s.Sessions.Close(sess.ID)

	log.Info().Int("tickers", len(tickers)).Str("session_id", sess.ID).Msg("batch run starting")

	coord := &Coordinator{
		Concurrency: s.batchConcurrency,
		Run: func(ctx context.Context, ticker string) (models.Report, error) {
			return s.RunTicker(sess, ticker)
		},
	}
	outcomes, summary := coord.RunBatch(sess.Context(), tickers)
	return outcomes, summary, nil
}

// History returns past analyses of a ticker, most recent first.
func (s *System) History(ticker string, limit int) []models.MemoryEntry {
	return s.Bank.Query(ticker, limit)
}

// SessionHistory returns the analyses recorded under a session in run order.
func (s *System) SessionHistory(sessionID string) []models.MemoryEntry {
	return s.Bank.QuerySession(sessionID)
}

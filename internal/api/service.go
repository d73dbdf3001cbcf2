// Package api exposes the triage engine over HTTP.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/triagestack/triage-engine/internal/engine"
	"github.com/triagestack/triage-engine/internal/metrics"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/notify"
	"github.com/triagestack/triage-engine/internal/signatures"
	"github.com/triagestack/triage-engine/internal/utils"
)

// ReportStore defines the persistence operations the API needs. Nil means
// the engine runs stateless and history endpoints are unavailable.
type ReportStore interface {
	SaveReport(ctx context.Context, report models.AnalysisReport) error
	GetReport(ctx context.Context, reportID string) (models.AnalysisReport, error)
	ListReports(ctx context.Context, req models.ListReportsRequest) ([]models.ReportSummary, error)
	SaveFeedback(ctx context.Context, fb models.Feedback) error
	RecentReports(ctx context.Context, since time.Time, limit int) ([]models.AnalysisReport, error)
	Health(ctx context.Context) error
}

// LogSource supplies stored log batches for analyze-from-store requests.
// Nil means only inline batches can be analysed.
type LogSource interface {
	FetchBatch(ctx context.Context, since time.Time, limit int) ([]models.LogEntry, error)
}

// TriageService coordinates the pipeline with persistence and delivery.
type TriageService struct {
	logger    *slog.Logger
	pipeline  *engine.Pipeline
	store     ReportStore
	notifier  *notify.Notifier
	logs      LogSource
	miner     *signatures.Miner
	latencies *utils.LatencyTracker
}

// NewTriageService constructs the service facade. store, notifier and logs
// may be nil.
func NewTriageService(logger *slog.Logger, pipeline *engine.Pipeline, store ReportStore, notifier *notify.Notifier, logs LogSource) *TriageService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = engine.NewPipeline(logger, nil, nil, nil, nil, nil)
	}
	return &TriageService{
		logger:    logger,
		pipeline:  pipeline,
		store:     store,
		notifier:  notifier,
		logs:      logs,
		miner:     signatures.NewMiner(logger),
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Analyze runs the pipeline over one batch, persists the report when a
// store is configured and hands it to the notifier.
func (s *TriageService) Analyze(ctx context.Context, req engine.AnalysisRequest) (models.AnalysisReport, error) {
	start := time.Now()
	report, err := s.pipeline.Analyze(ctx, req)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError, 0)
		s.logger.Error("analysis failed", slog.Any("error", err))
		return models.AnalysisReport{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess, report.TotalLogsAnalyzed)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}

	if s.store != nil {
		if err := s.store.SaveReport(ctx, report); err != nil {
			s.logger.Warn("report persistence failed",
				slog.String("report_id", report.ReportID), slog.Any("error", err))
		}
	}
	if s.notifier.Enabled() {
		// Best effort: delivery failures are logged inside the notifier.
		_ = s.notifier.Deliver(ctx, report)
	}
	return report, nil
}

// AnalyzeFromStore pulls a batch from the attached log store and runs it
// through the pipeline like any inline batch.
func (s *TriageService) AnalyzeFromStore(ctx context.Context, since time.Time, limit int) (models.AnalysisReport, error) {
	entries, err := s.logs.FetchBatch(ctx, since, limit)
	if err != nil {
		s.logger.Error("log store fetch failed", slog.Any("error", err))
		return models.AnalysisReport{}, err
	}
	s.logger.Debug("fetched stored batch",
		slog.Int("entries", len(entries)), slog.Time("since", since))
	return s.Analyze(ctx, engine.AnalysisRequest{Logs: entries})
}

// Report loads one stored report.
func (s *TriageService) Report(ctx context.Context, reportID string) (models.AnalysisReport, error) {
	return s.store.GetReport(ctx, reportID)
}

// Reports lists stored report summaries.
func (s *TriageService) Reports(ctx context.Context, req models.ListReportsRequest) ([]models.ReportSummary, error) {
	return s.store.ListReports(ctx, req)
}

// SubmitFeedback records operator feedback for a stored report.
func (s *TriageService) SubmitFeedback(ctx context.Context, fb models.Feedback) error {
	return s.store.SaveFeedback(ctx, fb)
}

// Signatures mines incident signatures from recent report history.
func (s *TriageService) Signatures(ctx context.Context, since time.Time, limit int) ([]models.IncidentSignature, error) {
	reports, err := s.store.RecentReports(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	return s.miner.Mine(reports), nil
}

// HasLogSource reports whether analyze-from-store is available.
func (s *TriageService) HasLogSource() bool {
	return s.logs != nil
}

// HasStore reports whether history endpoints are available.
func (s *TriageService) HasStore() bool {
	return s.store != nil
}

// StoreHealthy pings the store; stateless deployments are always healthy.
func (s *TriageService) StoreHealthy(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Health(ctx)
}

// Package engine orchestrates the analytical components over a log batch
// and assembles the final analysis report.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/triagestack/triage-engine/internal/classifier"
	"github.com/triagestack/triage-engine/internal/detector"
	"github.com/triagestack/triage-engine/internal/incident"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/planner"
	"github.com/triagestack/triage-engine/internal/recommend"
)

// AnalysisRequest is one batch of logs to triage. Baseline is the optional
// comparison window for trend analysis; without it the trend step is
// skipped entirely.
type AnalysisRequest struct {
	Logs             []models.LogEntry `json:"logs"`
	Baseline         []models.LogEntry `json:"baseline,omitempty"`
	ComparisonWindow string            `json:"comparison_window,omitempty"`
}

// Pipeline runs classification, anomaly detection, incident typing,
// response planning and action recommendation in sequence.
type Pipeline struct {
	logger      *slog.Logger
	classifier  *classifier.Classifier
	detector    *detector.Detector
	incidents   *incident.Classifier
	planner     *planner.Builder
	recommender *recommend.Recommender
	now         func() time.Time
}

// NewPipeline constructs a pipeline. Nil components fall back to instances
// over the default rule tables.
func NewPipeline(
	logger *slog.Logger,
	patternClassifier *classifier.Classifier,
	anomalyDetector *detector.Detector,
	incidentClassifier *incident.Classifier,
	planBuilder *planner.Builder,
	recommender *recommend.Recommender,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if patternClassifier == nil {
		patternClassifier = classifier.New(nil)
	}
	if anomalyDetector == nil {
		anomalyDetector = detector.New()
	}
	if incidentClassifier == nil {
		incidentClassifier = incident.New(nil)
	}
	if planBuilder == nil {
		planBuilder = planner.New(nil)
	}
	if recommender == nil {
		recommender = recommend.New(nil)
	}

	return &Pipeline{
		logger:      logger,
		classifier:  patternClassifier,
		detector:    anomalyDetector,
		incidents:   incidentClassifier,
		planner:     planBuilder,
		recommender: recommender,
		now:         time.Now,
	}
}

// Analyze runs the full flow over the request's batch. Malformed entries
// are skipped and counted, never fatal; an empty batch yields a complete
// low-priority report with empty collections.
func (p *Pipeline) Analyze(ctx context.Context, req AnalysisRequest) (models.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return models.AnalysisReport{}, err
	}
	started := p.now().UTC()

	classified := p.classifier.Classify(req.Logs)
	anomalies := p.detector.DetectSpikes(req.Logs)
	correlations := p.detector.Correlate(classified.Matches)
	trend := p.detector.Trend(req.Logs, req.Baseline, req.ComparisonWindow)

	analysis := p.incidents.Classify(classified.Matches)
	plan := p.planner.Build(analysis, started)
	rec := p.recommender.Recommend(classified.Matches, analysis)

	report := models.AnalysisReport{
		ReportID:                uuid.NewString(),
		ReportGeneratedAt:       started,
		TotalLogsAnalyzed:       classified.Processed,
		SkippedCount:            classified.Skipped,
		PatternsFound:           classified.Matches,
		Anomalies:               anomalies,
		Correlations:            correlations,
		Trend:                   trend,
		IncidentAnalysis:        analysis,
		ResponsePlan:            plan,
		RecommendedActions:      rec.Actions,
		ExecutionPlan:           rec.ExecutionPlan,
		SuccessProbability:      rec.SuccessProbability,
		EstimatedResolutionTime: rec.EstimatedResolutionTime,
		RollbackStrategy:        rec.RollbackStrategy,
		RiskAssessment:          rec.RiskAssessment,
	}

	p.logger.Info("analysis complete",
		slog.String("report_id", report.ReportID),
		slog.Int("logs", report.TotalLogsAnalyzed),
		slog.Int("skipped", report.SkippedCount),
		slog.Int("patterns", len(report.PatternsFound)),
		slog.Int("anomalies", len(report.Anomalies)),
		slog.String("incident_type", string(analysis.IncidentType)),
		slog.String("priority", string(analysis.Priority)),
		slog.String("playbook", rec.Playbook),
	)
	return report, nil
}

// RenderReport serialises the report for the boundary. A marshal failure
// degrades to a structured error object instead of propagating.
func RenderReport(logger *slog.Logger, report models.AnalysisReport) []byte {
	data, err := json.Marshal(report)
	if err == nil {
		return data
	}
	if logger != nil {
		logger.Error("report serialisation failed", slog.Any("error", err))
	}
	fallback, _ := json.Marshal(models.ReportError{
		Error:     "report generation failed: " + err.Error(),
		Timestamp: time.Now().UTC(),
	})
	return fallback
}

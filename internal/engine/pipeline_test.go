package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/triagestack/triage-engine/internal/models"
)

func entry(message, timestamp string) models.LogEntry {
	return models.LogEntry{
		Message:   message,
		Timestamp: timestamp,
		Severity:  "ERROR",
		AgentID:   "agent-1",
	}
}

func TestAnalyzeDatabaseTimeoutBatch(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	var logs []models.LogEntry
	for i := 0; i < 5; i++ {
		logs = append(logs, entry("database connection timeout", "2025-06-20T01:00:00Z"))
	}

	report, err := p.Analyze(context.Background(), AnalysisRequest{Logs: logs})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if report.TotalLogsAnalyzed != 5 || report.SkippedCount != 0 {
		t.Fatalf("expected 5 analysed, got %d (skipped %d)", report.TotalLogsAnalyzed, report.SkippedCount)
	}
	if len(report.PatternsFound) != 5 {
		t.Fatalf("expected 5 pattern matches, got %d", len(report.PatternsFound))
	}
	for _, match := range report.PatternsFound {
		if match.Category != models.CategoryDatabase {
			t.Fatalf("expected database category, got %s", match.Category)
		}
		if match.Severity != models.SeverityMedium {
			t.Fatalf("timeout keyword sits in the medium tier, got %s", match.Severity)
		}
	}
	if report.IncidentAnalysis.IncidentType != models.IncidentDatabaseFailure {
		t.Fatalf("expected database_failure, got %s", report.IncidentAnalysis.IncidentType)
	}

	rates := make(map[string]float64)
	for _, action := range report.RecommendedActions {
		rates[action.Name] = action.SuccessRate
	}
	if rates["restart_connection_pool"] != 0.85 || rates["scale_database_resources"] != 0.90 {
		t.Fatalf("expected database playbook actions, got %v", rates)
	}
	if report.ReportID == "" || report.ReportGeneratedAt.IsZero() {
		t.Fatal("report identity fields not populated")
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	report, err := p.Analyze(context.Background(), AnalysisRequest{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if report.TotalLogsAnalyzed != 0 {
		t.Fatalf("expected zero logs analysed, got %d", report.TotalLogsAnalyzed)
	}
	if len(report.PatternsFound) != 0 || len(report.Anomalies) != 0 || len(report.Correlations) != 0 {
		t.Fatal("expected empty pattern, anomaly and correlation collections")
	}
	if report.RiskAssessment.OverallRiskLevel != models.RiskLow {
		t.Fatalf("expected low overall risk, got %s", report.RiskAssessment.OverallRiskLevel)
	}
	if report.Trend != nil {
		t.Fatal("trend must be absent without a comparison window")
	}
	if report.EstimatedResolutionTime != "0_minutes" {
		t.Fatalf("expected 0_minutes, got %q", report.EstimatedResolutionTime)
	}
}

func TestAnalyzeCriticalShortCircuit(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	logs := []models.LogEntry{
		entry("api request failed", "2025-06-20T01:00:00Z"),
		entry("api request failed", "2025-06-20T01:05:00Z"),
		entry("fatal database crash detected, database error", "2025-06-20T01:10:00Z"),
	}

	report, err := p.Analyze(context.Background(), AnalysisRequest{Logs: logs})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.IncidentAnalysis.Priority != models.PriorityCritical {
		t.Fatalf("one critical match must force critical priority, got %s", report.IncidentAnalysis.Priority)
	}
}

func TestAnalyzeSkipsMalformedEntries(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	logs := []models.LogEntry{
		entry("database error", "2025-06-20T01:00:00Z"),
		{Message: "", Timestamp: "2025-06-20T01:00:00Z"},
		{Message: "database error", Timestamp: ""},
	}

	report, err := p.Analyze(context.Background(), AnalysisRequest{Logs: logs})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.TotalLogsAnalyzed != 1 || report.SkippedCount != 2 {
		t.Fatalf("expected 1 analysed and 2 skipped, got %d/%d", report.TotalLogsAnalyzed, report.SkippedCount)
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Analyze(ctx, AnalysisRequest{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, nil, nil)

	logs := []models.LogEntry{
		entry("database connection timeout", "2025-06-20T01:00:00Z"),
		entry("failed login attempt from 10.0.0.9", "2025-06-20T01:00:00Z"),
	}
	report, err := p.Analyze(context.Background(), AnalysisRequest{Logs: logs})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	data := RenderReport(nil, report)
	var decoded models.AnalysisReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded.ReportID != report.ReportID {
		t.Fatalf("report id lost in round trip: %q vs %q", decoded.ReportID, report.ReportID)
	}
	if len(decoded.PatternsFound) != len(report.PatternsFound) {
		t.Fatalf("patterns lost in round trip: %d vs %d", len(decoded.PatternsFound), len(report.PatternsFound))
	}
	if decoded.RiskAssessment.OverallRiskLevel != report.RiskAssessment.OverallRiskLevel {
		t.Fatal("risk assessment lost in round trip")
	}
}

package models

import "time"

// AnalysisReport is the full pipeline output for one log batch. It is the
// structured object handed to downstream consumers (notifier, storage,
// API callers) and is JSON round-trip safe.
type AnalysisReport struct {
	ReportID                string           `json:"report_id"`
	ReportGeneratedAt       time.Time        `json:"report_generated_at"`
	TotalLogsAnalyzed       int              `json:"total_logs_analyzed"`
	SkippedCount            int              `json:"skipped_count"`
	PatternsFound           []PatternMatch   `json:"patterns_found"`
	Anomalies               []Anomaly        `json:"anomalies"`
	Correlations            []Correlation    `json:"correlations"`
	Trend                   *Trend           `json:"trend,omitempty"`
	IncidentAnalysis        IncidentAnalysis `json:"incident_analysis"`
	ResponsePlan            ResponsePlan     `json:"response_plan"`
	RecommendedActions      []Action         `json:"recommended_actions"`
	ExecutionPlan           []ExecutionStep  `json:"execution_plan"`
	SuccessProbability      float64          `json:"success_probability"`
	EstimatedResolutionTime string           `json:"estimated_resolution_time"`
	RollbackStrategy        RollbackStrategy `json:"rollback_strategy"`
	RiskAssessment          RiskAssessment   `json:"risk_assessment"`
}

// ReportError is the degraded result returned when report assembly or
// serialisation fails at the boundary; the pipeline reports failure rather
// than propagating a panic or exception.
type ReportError struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Feedback captures operator feedback on a stored report.
type Feedback struct {
	ReportID           string    `json:"report_id"`
	Correct            bool      `json:"correct"`
	EffectivenessScore int       `json:"effectiveness_score"`
	Notes              string    `json:"notes"`
	SubmittedAt        time.Time `json:"submitted_at"`
}

// IncidentSignature is a recurring incident shape mined from report history.
type IncidentSignature struct {
	ID           string       `json:"id"`
	IncidentType IncidentType `json:"incident_type"`
	Categories   []Category   `json:"categories"`
	Occurrences  int          `json:"occurrences"`
	Prevalence   float64      `json:"prevalence"`
	TopActions   []string     `json:"top_actions"`
	LastSeen     time.Time    `json:"last_seen"`
}

// ListReportsRequest filters stored report summaries.
type ListReportsRequest struct {
	IncidentType IncidentType
	Priority     Priority
	Since        time.Time
	Limit        int
}

// ReportSummary is the list-view projection of a stored report.
type ReportSummary struct {
	ReportID          string       `json:"report_id"`
	ReportGeneratedAt time.Time    `json:"report_generated_at"`
	IncidentType      IncidentType `json:"incident_type"`
	Priority          Priority     `json:"priority"`
	TotalLogsAnalyzed int          `json:"total_logs_analyzed"`
	OverallRiskLevel  RiskLevel    `json:"overall_risk_level"`
}

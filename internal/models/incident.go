package models

// IncidentType enumerates the incident families derived from pattern matches.
type IncidentType string

const (
	IncidentDatabaseFailure       IncidentType = "database_failure"
	IncidentAPIDegradation        IncidentType = "api_degradation"
	IncidentPerformanceIssue      IncidentType = "performance_issue"
	IncidentSecurityBreach        IncidentType = "security_breach"
	IncidentInfrastructureFailure IncidentType = "infrastructure_failure"
)

// Priority ranks incidents for escalation, ordered critical > high > medium > low.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// RootCauseHypothesis is a ranked candidate explanation with supporting evidence.
type RootCauseHypothesis struct {
	Hypothesis         string   `json:"hypothesis"`
	Confidence         float64  `json:"confidence"`
	Evidence           []string `json:"evidence"`
	InvestigationSteps []string `json:"investigation_steps"`
}

// BusinessImpact estimates the blast radius of the incident.
type BusinessImpact struct {
	UserScale         string `json:"user_scale"`
	RevenueRisk       string `json:"revenue_risk"`
	ReputationalRisk  string `json:"reputational_risk"`
	ComplianceImpact  string `json:"compliance_impact,omitempty"`
	EstimatedUsersMax int    `json:"estimated_users_max,omitempty"`
}

// IncidentAnalysis is the classifier verdict over one batch of matches.
type IncidentAnalysis struct {
	IncidentType         IncidentType          `json:"incident_type"`
	Priority             Priority              `json:"priority"`
	AffectedServices     []string              `json:"affected_services"`
	BusinessImpact       BusinessImpact        `json:"business_impact"`
	RootCauseHypotheses  []RootCauseHypothesis `json:"root_cause_hypotheses"`
	MatchCount           int                   `json:"match_count"`
	CriticalMatchCount   int                   `json:"critical_match_count"`
	HighSeverityMatchCnt int                   `json:"high_severity_match_count"`
}

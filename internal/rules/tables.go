package rules

import (
	"regexp"

	"github.com/triagestack/triage-engine/internal/models"
)

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}

func defaultCategories() []CategoryTable {
	return []CategoryTable{
		{
			Category: models.CategoryDatabase,
			Rules: []CategoryRule{
				{ID: "db_connection_timeout", Pattern: re(`connection.*timeout`)},
				{ID: "db_error", Pattern: re(`database.*error`)},
				{ID: "db_sql_exception", Pattern: re(`sql.*exception`)},
				{ID: "db_deadlock", Pattern: re(`deadlock.*detected`)},
				{ID: "db_pool_exhausted", Pattern: re(`connection.*pool.*exhausted`)},
			},
		},
		{
			Category: models.CategoryAPI,
			Rules: []CategoryRule{
				{ID: "api_rate_limit", Pattern: re(`rate.*limit.*exceeded`)},
				{ID: "api_error_status", Pattern: re(`api.*error.*\d{3}`)},
				{ID: "api_request_failed", Pattern: re(`request.*failed`)},
				{ID: "api_auth_failed", Pattern: re(`authentication.*failed`)},
				{ID: "api_authz_denied", Pattern: re(`authorization.*denied`)},
			},
		},
		{
			Category: models.CategoryPerformance,
			Rules: []CategoryRule{
				{ID: "perf_response_time", Pattern: re(`response.*time.*\d+ms`)},
				{ID: "perf_memory_leak", Pattern: re(`memory.*leak`)},
				{ID: "perf_cpu_usage", Pattern: re(`cpu.*usage.*\d+%`)},
				{ID: "perf_disk_low", Pattern: re(`disk.*space.*low`)},
				{ID: "perf_thread_pool", Pattern: re(`thread.*pool.*exhausted`)},
			},
		},
		{
			Category: models.CategorySecurity,
			Rules: []CategoryRule{
				{ID: "sec_failed_login", Pattern: re(`failed.*login.*attempt`)},
				{ID: "sec_suspicious", Pattern: re(`suspicious.*activity`)},
				{ID: "sec_brute_force", Pattern: re(`brute.*force.*attack`)},
				{ID: "sec_priv_escalation", Pattern: re(`privilege.*escalation`)},
				{ID: "sec_breach_attempt", Pattern: re(`data.*breach.*attempt`)},
			},
		},
	}
}

func defaultSeverityTiers() []SeverityTier {
	return []SeverityTier{
		{Severity: models.SeverityCritical, Keywords: []string{"fatal", "panic", "emergency", "critical", "severe"}},
		{Severity: models.SeverityHigh, Keywords: []string{"error", "exception", "failure", "down", "unavailable"}},
		{Severity: models.SeverityMedium, Keywords: []string{"warning", "warn", "deprecated", "timeout"}},
		{Severity: models.SeverityLow, Keywords: []string{"info", "debug", "trace", "notice"}},
	}
}

func defaultServiceTags() []ServiceTagRule {
	return []ServiceTagRule{
		{Keywords: []string{"api"}, Service: "api_gateway"},
		{Keywords: []string{"database", "sql"}, Service: "database"},
		{Keywords: []string{"auth", "login"}, Service: "authentication"},
		{Keywords: []string{"payment"}, Service: "payment_processing"},
	}
}

func defaultHypotheses() map[models.Category][]models.RootCauseHypothesis {
	return map[models.Category][]models.RootCauseHypothesis{
		models.CategoryDatabase: {
			{
				Hypothesis: "Connection pool exhaustion under sustained load",
				Confidence: 0.85,
				Evidence:   []string{"connection timeout patterns", "pool exhaustion messages"},
				InvestigationSteps: []string{
					"Check active connection count against pool limits",
					"Review slow query log for long-held connections",
					"Verify database host resource utilisation",
				},
			},
			{
				Hypothesis: "Database host degradation or failover in progress",
				Confidence: 0.6,
				Evidence:   []string{"repeated database errors within a single window"},
				InvestigationSteps: []string{
					"Check replication and failover status",
					"Inspect database host disk and memory pressure",
				},
			},
		},
		models.CategoryAPI: {
			{
				Hypothesis: "Upstream dependency throttling requests",
				Confidence: 0.75,
				Evidence:   []string{"rate limit and request failure patterns"},
				InvestigationSteps: []string{
					"Compare request volume against configured quotas",
					"Review recent client deployments for retry storms",
				},
			},
		},
		models.CategoryPerformance: {
			{
				Hypothesis: "Resource saturation from a memory or thread leak",
				Confidence: 0.8,
				Evidence:   []string{"memory leak and resource exhaustion patterns"},
				InvestigationSteps: []string{
					"Capture heap and goroutine profiles",
					"Correlate resource growth against deployment times",
				},
			},
		},
		models.CategorySecurity: {
			{
				Hypothesis: "Credential stuffing or brute force campaign",
				Confidence: 0.7,
				Evidence:   []string{"failed login and brute force patterns"},
				InvestigationSteps: []string{
					"Aggregate failed logins by source address",
					"Check for successful logins following failure bursts",
				},
			},
		},
	}
}

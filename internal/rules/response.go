package rules

import "github.com/triagestack/triage-engine/internal/models"

func defaultTemplates() map[models.IncidentType]ResponseTemplate {
	return map[models.IncidentType]ResponseTemplate{
		models.IncidentDatabaseFailure: {
			ImmediateActions: []string{
				"Verify database connectivity from application hosts",
				"Fail over to replica if the primary is unresponsive",
				"Recycle application connection pools",
			},
			MitigationSteps: []string{
				"Throttle non-essential database workloads",
				"Enable degraded read-only mode where supported",
			},
			PreventionMeasures: []string{
				"Add connection pool saturation alerting",
				"Schedule regular failover drills",
			},
			SuccessCriteria: []string{
				"Database error rate back to baseline",
				"Connection pool utilisation below 80%",
				"No new timeout events for 30 minutes",
			},
		},
		models.IncidentAPIDegradation: {
			ImmediateActions: []string{
				"Identify the failing endpoints and upstream dependencies",
				"Apply defensive rate limiting at the gateway",
				"Shed non-critical traffic",
			},
			MitigationSteps: []string{
				"Enable cached responses for read-heavy endpoints",
				"Coordinate with upstream providers on quota relief",
			},
			PreventionMeasures: []string{
				"Introduce circuit breakers on upstream calls",
				"Review client retry and backoff policies",
			},
			SuccessCriteria: []string{
				"API error rate back below SLO threshold",
				"P95 latency within target",
			},
		},
		models.IncidentPerformanceIssue: {
			ImmediateActions: []string{
				"Identify saturated resources on affected hosts",
				"Scale out the degraded service",
				"Restart instances exhibiting leak behaviour",
			},
			MitigationSteps: []string{
				"Defer batch and background workloads",
				"Reduce cache expiry pressure where applicable",
			},
			PreventionMeasures: []string{
				"Add resource-trend alerting ahead of saturation",
				"Profile the service under representative load",
			},
			SuccessCriteria: []string{
				"Resource utilisation back within operating range",
				"Response times within SLO for 30 minutes",
			},
		},
		models.IncidentSecurityBreach: {
			ImmediateActions: []string{
				"Isolate affected accounts and source addresses",
				"Preserve authentication and audit logs",
				"Notify the security response team",
			},
			MitigationSteps: []string{
				"Force credential rotation for touched accounts",
				"Tighten authentication rate limits",
			},
			PreventionMeasures: []string{
				"Review anomaly detection coverage on auth flows",
				"Audit privilege assignments",
			},
			SuccessCriteria: []string{
				"No further suspicious authentication activity",
				"All affected credentials rotated",
				"Incident review completed",
			},
		},
		models.IncidentInfrastructureFailure: {
			ImmediateActions: []string{
				"Identify the failing infrastructure component",
				"Shift workloads to healthy capacity",
				"Engage the infrastructure on-call",
			},
			MitigationSteps: []string{
				"Drain and replace unhealthy nodes",
				"Verify redundancy paths are active",
			},
			PreventionMeasures: []string{
				"Review capacity headroom and failure domains",
				"Automate unhealthy-node replacement",
			},
			SuccessCriteria: []string{
				"All workloads running on healthy infrastructure",
				"Error rates back to baseline",
			},
		},
	}
}

func genericTemplate() ResponseTemplate {
	return ResponseTemplate{
		ImmediateActions: []string{
			"Triage the reported symptoms with the on-call engineer",
			"Collect logs and metrics for the affected window",
		},
		MitigationSteps: []string{
			"Apply the least-risk mitigation available",
		},
		PreventionMeasures: []string{
			"Add detection coverage for this incident shape",
		},
		SuccessCriteria: []string{
			"incident resolved",
			"service restored",
			"monitoring stable",
		},
	}
}

func defaultImpacts() map[models.Priority]models.BusinessImpact {
	return map[models.Priority]models.BusinessImpact{
		models.PriorityCritical: {
			RevenueRisk:      "high",
			ReputationalRisk: "high",
			ComplianceImpact: "review_required",
		},
		models.PriorityHigh: {
			RevenueRisk:      "medium",
			ReputationalRisk: "medium",
		},
		models.PriorityMedium: {
			RevenueRisk:      "low",
			ReputationalRisk: "low",
		},
		models.PriorityLow: {
			RevenueRisk:      "minimal",
			ReputationalRisk: "minimal",
		},
	}
}

func defaultEscalations() map[models.Priority]models.Escalation {
	return map[models.Priority]models.Escalation{
		models.PriorityCritical: {
			ResponseTime:    "15_minutes",
			Stakeholders:    []string{"incident_commander", "engineering_director", "on_call_sre"},
			Channels:        []string{"pagerduty", "incident_bridge", "status_page"},
			UpdateFrequency: "every_30_minutes",
		},
		models.PriorityHigh: {
			ResponseTime:    "30_minutes",
			Stakeholders:    []string{"on_call_sre", "service_owner"},
			Channels:        []string{"pagerduty", "slack_incidents"},
			UpdateFrequency: "every_hour",
		},
		models.PriorityMedium: {
			ResponseTime:    "2_hours",
			Stakeholders:    []string{"service_owner"},
			Channels:        []string{"slack_incidents"},
			UpdateFrequency: "every_4_hours",
		},
		models.PriorityLow: {
			ResponseTime:    "next_business_day",
			Stakeholders:    []string{"service_owner"},
			Channels:        []string{"ticket_queue"},
			UpdateFrequency: "daily",
		},
	}
}

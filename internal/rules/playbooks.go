package rules

import "github.com/triagestack/triage-engine/internal/models"

func defaultPlaybooks() []Playbook {
	return []Playbook{
		{
			Name:     "database_connection_issues",
			Triggers: []string{"database", "connection", "timeout", "sql", "deadlock"},
			AutomatedActions: []ActionTemplate{
				{
					Name:            "restart_connection_pool",
					Description:     "Recycle the database connection pool to clear stale connections",
					AutomationLevel: models.AutomationAutomated,
					SuccessRate:     0.85,
					EstimatedTime:   "5_minutes",
					RollbackPlan:    "Restore previous pool configuration and reconnect",
				},
				{
					Name:            "scale_database_resources",
					Description:     "Scale database compute and connection capacity",
					AutomationLevel: models.AutomationAutomated,
					SuccessRate:     0.90,
					EstimatedTime:   "10_minutes",
					RollbackPlan:    "Scale back to the previous resource allocation",
				},
			},
			ManualActions: []ActionTemplate{
				{
					Name:            "investigate_slow_queries",
					Description:     "Review the slow query log for blocking statements",
					AutomationLevel: models.AutomationManual,
					SuccessRate:     0.70,
					EstimatedTime:   "30_minutes",
				},
				{
					Name:            "review_connection_configuration",
					Description:     "Audit pool sizing and timeout settings against load",
					AutomationLevel: models.AutomationSemiAutomated,
					SuccessRate:     0.75,
					EstimatedTime:   "20_minutes",
				},
			},
		},
		{
			Name:     "api_rate_limiting",
			Triggers: []string{"rate limit", "api error", "request failed", "authentication"},
			AutomatedActions: []ActionTemplate{
				{
					Name:            "enable_request_throttling",
					Description:     "Apply defensive throttling at the API gateway",
					AutomationLevel: models.AutomationAutomated,
					SuccessRate:     0.80,
					EstimatedTime:   "5_minutes",
					RollbackPlan:    "Remove the throttling policy",
				},
				{
					Name:            "restart_api_gateway",
					Description:     "Restart gateway instances to clear wedged workers",
					AutomationLevel: models.AutomationSemiAutomated,
					SuccessRate:     0.75,
					EstimatedTime:   "10_minutes",
					RollbackPlan:    "Route traffic back through standby instances",
				},
			},
			ManualActions: []ActionTemplate{
				{
					Name:            "review_rate_limit_policies",
					Description:     "Compare configured quotas against observed request volume",
					AutomationLevel: models.AutomationManual,
					SuccessRate:     0.65,
					EstimatedTime:   "45_minutes",
				},
			},
		},
		{
			Name:     "performance_degradation",
			Triggers: []string{"performance", "memory", "cpu", "slow", "latency", "response time"},
			AutomatedActions: []ActionTemplate{
				{
					Name:            "scale_up_resources",
					Description:     "Add compute capacity to the degraded service",
					AutomationLevel: models.AutomationAutomated,
					SuccessRate:     0.85,
					EstimatedTime:   "10_minutes",
					RollbackPlan:    "Scale back to the previous capacity",
				},
				{
					Name:            "restart_degraded_services",
					Description:     "Rolling restart of instances with degraded health",
					AutomationLevel: models.AutomationSemiAutomated,
					SuccessRate:     0.80,
					EstimatedTime:   "15_minutes",
					RollbackPlan:    "Halt the rolling restart and restore prior instances",
				},
			},
			ManualActions: []ActionTemplate{
				{
					Name:            "investigate_resource_usage",
					Description:     "Profile CPU, memory and disk usage on affected hosts",
					AutomationLevel: models.AutomationManual,
					SuccessRate:     0.70,
					EstimatedTime:   "1_hour",
				},
			},
		},
		{
			Name:     "security_incident",
			Triggers: []string{"security", "login", "breach", "brute force", "privilege", "suspicious"},
			AutomatedActions: []ActionTemplate{
				{
					Name:            "block_suspicious_sources",
					Description:     "Block source addresses exceeding failure thresholds",
					AutomationLevel: models.AutomationAutomated,
					SuccessRate:     0.90,
					EstimatedTime:   "5_minutes",
					RollbackPlan:    "Remove the block list entries",
				},
			},
			ManualActions: []ActionTemplate{
				{
					Name:            "rotate_exposed_credentials",
					Description:     "Rotate credentials for accounts touched by the activity",
					AutomationLevel: models.AutomationApprovalRequired,
					SuccessRate:     0.95,
					EstimatedTime:   "30_minutes",
				},
				{
					Name:            "investigate_access_logs",
					Description:     "Trace the activity across authentication and audit logs",
					AutomationLevel: models.AutomationManual,
					SuccessRate:     0.75,
					EstimatedTime:   "1_hour",
				},
			},
		},
	}
}

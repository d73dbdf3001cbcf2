package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

const rollbackTimeout = "10_minutes"

func rollbackTriggerConditions() []string {
	return []string{
		"timeout_exceeded",
		"validation_failed",
		"error_threshold_exceeded",
		"performance_degradation",
	}
}

// executionPlan sequences the already-sorted actions. Step numbers are
// 1-based; dependencies and validation steps are inferred from the action
// name the same way the justification is.
func executionPlan(actions []models.Action) []models.ExecutionStep {
	steps := make([]models.ExecutionStep, 0, len(actions))
	for i, action := range actions {
		steps = append(steps, models.ExecutionStep{
			StepNumber:      i + 1,
			Action:          action.Name,
			AutomationLevel: action.AutomationLevel,
			EstimatedTime:   action.EstimatedTime,
			Dependencies:    dependencies(action.Name),
			ValidationSteps: validationSteps(action.Name),
			RollbackTriggers: map[string]bool{
				"timeout_exceeded":         true,
				"validation_failed":        true,
				"error_threshold_exceeded": true,
				"performance_degradation":  true,
			},
		})
	}
	return steps
}

func dependencies(name string) []string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "scale"):
		return []string{"check_current_resources"}
	case strings.Contains(lower, "restart"):
		return []string{"backup_service_state"}
	case strings.Contains(lower, "investigate"):
		return []string{"collect_logs"}
	default:
		return []string{}
	}
}

func validationSteps(name string) []string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "restart"):
		return []string{"verify_service_health", "check_error_rates", "confirm_connectivity"}
	case strings.Contains(lower, "scale"):
		return []string{"verify_resource_allocation", "check_performance_metrics"}
	default:
		return []string{"verify_completion", "check_system_stability"}
	}
}

// successProbability is the unweighted mean of the action success rates.
func successProbability(actions []models.Action) float64 {
	if len(actions) == 0 {
		return 0.0
	}
	total := 0.0
	for _, action := range actions {
		total += action.SuccessRate
	}
	return total / float64(len(actions))
}

// totalMinutes sums every action's estimated time. Unparseable durations
// contribute nothing rather than failing the whole plan.
func totalMinutes(actions []models.Action) int {
	total := 0
	for _, action := range actions {
		total += parseMinutes(action.EstimatedTime)
	}
	return total
}

// parseMinutes reads durations of the form "5_minutes" or "1_hour".
func parseMinutes(estimated string) int {
	parts := strings.SplitN(estimated, "_", 2)
	if len(parts) != 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	if strings.HasPrefix(parts[1], "hour") {
		return n * 60
	}
	if strings.HasPrefix(parts[1], "minute") {
		return n
	}
	return 0
}

func renderMinutes(total int) string {
	if total >= 60 {
		return fmt.Sprintf("%d_hours_%d_minutes", total/60, total%60)
	}
	return fmt.Sprintf("%d_minutes", total)
}

// rollbackStrategy collects every action that declares a rollback plan.
func rollbackStrategy(actions []models.Action) models.RollbackStrategy {
	rollbacks := make([]models.RollbackAction, 0)
	for _, action := range actions {
		if action.RollbackPlan == "" {
			continue
		}
		rollbacks = append(rollbacks, models.RollbackAction{
			Action:       action.Name,
			RollbackPlan: action.RollbackPlan,
		})
	}
	return models.RollbackStrategy{
		AutomatedRollbacks: rollbacks,
		TriggerConditions:  rollbackTriggerConditions(),
		RollbackTimeout:    rollbackTimeout,
	}
}

// riskAssessment buckets actions by name and automation level. Restarts and
// scaling are disruptive, fully automated ones the most; investigation is
// read-only and therefore low risk.
func riskAssessment(actions []models.Action) models.RiskAssessment {
	assessment := models.RiskAssessment{
		HighRiskActions:   []string{},
		MediumRiskActions: []string{},
		LowRiskActions:    []string{},
	}
	for _, action := range actions {
		switch actionRisk(action) {
		case models.RiskHigh:
			assessment.HighRiskActions = append(assessment.HighRiskActions, action.Name)
		case models.RiskMedium:
			assessment.MediumRiskActions = append(assessment.MediumRiskActions, action.Name)
		case models.RiskLow:
			assessment.LowRiskActions = append(assessment.LowRiskActions, action.Name)
		}
	}

	switch {
	case len(assessment.HighRiskActions) > 0:
		assessment.OverallRiskLevel = models.RiskHigh
	case len(assessment.MediumRiskActions) > 0:
		assessment.OverallRiskLevel = models.RiskMedium
	default:
		assessment.OverallRiskLevel = models.RiskLow
	}
	return assessment
}

func actionRisk(action models.Action) models.RiskLevel {
	lower := strings.ToLower(action.Name)
	disruptive := strings.Contains(lower, "restart") || strings.Contains(lower, "scale")
	switch {
	case disruptive && action.AutomationLevel == models.AutomationAutomated:
		return models.RiskHigh
	case disruptive:
		return models.RiskMedium
	case strings.Contains(lower, "investigate"):
		return models.RiskLow
	default:
		return models.RiskMedium
	}
}

package models

// AutomationLevel states how much human involvement an action needs.
type AutomationLevel string

const (
	AutomationAutomated        AutomationLevel = "automated"
	AutomationSemiAutomated    AutomationLevel = "semi_automated"
	AutomationManual           AutomationLevel = "manual"
	AutomationApprovalRequired AutomationLevel = "approval_required"
)

// RiskLevel buckets actions and the overall plan by execution risk.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Action is a recommended remediation step. PriorityScore is derived during
// recommendation and never supplied as input.
type Action struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AutomationLevel AutomationLevel `json:"automation_level"`
	SuccessRate     float64         `json:"success_rate"`
	EstimatedTime   string          `json:"estimated_time"`
	RollbackPlan    string          `json:"rollback_plan,omitempty"`
	Justification   string          `json:"justification,omitempty"`
	PriorityScore   float64         `json:"priority_score"`
}

// ExecutionStep sequences one action within the final execution plan.
// StepNumber is the 1-based position in the sorted action order.
type ExecutionStep struct {
	StepNumber       int             `json:"step_number"`
	Action           string          `json:"action"`
	AutomationLevel  AutomationLevel `json:"automation_level"`
	EstimatedTime    string          `json:"estimated_time"`
	Dependencies     []string        `json:"dependencies"`
	ValidationSteps  []string        `json:"validation_steps"`
	RollbackTriggers map[string]bool `json:"rollback_triggers"`
}

// RollbackStrategy collects every action carrying a rollback plan plus the
// fixed trigger conditions and timeout applied to all of them.
type RollbackStrategy struct {
	AutomatedRollbacks []RollbackAction `json:"automated_rollbacks"`
	TriggerConditions  []string         `json:"trigger_conditions"`
	RollbackTimeout    string           `json:"rollback_timeout"`
}

// RollbackAction pairs an action with its rollback procedure.
type RollbackAction struct {
	Action       string `json:"action"`
	RollbackPlan string `json:"rollback_plan"`
}

// RiskAssessment buckets action names by risk. OverallRiskLevel is high iff
// any high-risk action exists, else medium iff any medium-risk action
// exists, else low.
type RiskAssessment struct {
	HighRiskActions   []string  `json:"high_risk_actions"`
	MediumRiskActions []string  `json:"medium_risk_actions"`
	LowRiskActions    []string  `json:"low_risk_actions"`
	OverallRiskLevel  RiskLevel `json:"overall_risk_level"`
}

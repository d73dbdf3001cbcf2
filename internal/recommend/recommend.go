// Package recommend matches incidents against automation playbooks and
// produces a risk-scored, dependency-ordered execution plan.
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/rules"
)

// Recommender selects playbooks and prioritises remediation actions.
// Stateless, safe for concurrent use.
type Recommender struct {
	rules *rules.Set
}

// New constructs a Recommender over the supplied rule set.
func New(set *rules.Set) *Recommender {
	if set == nil {
		set = rules.Default()
	}
	return &Recommender{rules: set}
}

// Recommendation is the full recommender output for one incident.
type Recommendation struct {
	Playbook                string                  `json:"playbook"`
	Actions                 []models.Action         `json:"actions"`
	ExecutionPlan           []models.ExecutionStep  `json:"execution_plan"`
	SuccessProbability      float64                 `json:"success_probability"`
	EstimatedResolutionTime string                  `json:"estimated_resolution_time"`
	RollbackStrategy        models.RollbackStrategy `json:"rollback_strategy"`
	RiskAssessment          models.RiskAssessment   `json:"risk_assessment"`
}

// Recommend builds the prioritised action plan for the matches. An empty
// match set yields an empty plan with zero success probability rather than
// the default playbook: with nothing matched there is nothing to remediate.
func (r *Recommender) Recommend(matches []models.PatternMatch, analysis models.IncidentAnalysis) Recommendation {
	if len(matches) == 0 {
		return emptyRecommendation()
	}

	playbook := r.selectPlaybook(matches)
	actions := r.buildActions(playbook, matches)
	for i := range actions {
		actions[i].Justification = justification(actions[i].Name)
		actions[i].PriorityScore = priorityScore(actions[i], analysis.Priority)
	}

	// Stable: equal scores keep their pre-sort relative order.
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].PriorityScore > actions[j].PriorityScore
	})

	return Recommendation{
		Playbook:                playbook.Name,
		Actions:                 actions,
		ExecutionPlan:           executionPlan(actions),
		SuccessProbability:      successProbability(actions),
		EstimatedResolutionTime: renderMinutes(totalMinutes(actions)),
		RollbackStrategy:        rollbackStrategy(actions),
		RiskAssessment:          riskAssessment(actions),
	}
}

func emptyRecommendation() Recommendation {
	return Recommendation{
		Actions:                 []models.Action{},
		ExecutionPlan:           []models.ExecutionStep{},
		SuccessProbability:      0.0,
		EstimatedResolutionTime: "0_minutes",
		RollbackStrategy: models.RollbackStrategy{
			AutomatedRollbacks: []models.RollbackAction{},
			TriggerConditions:  rollbackTriggerConditions(),
			RollbackTimeout:    rollbackTimeout,
		},
		RiskAssessment: models.RiskAssessment{
			HighRiskActions:   []string{},
			MediumRiskActions: []string{},
			LowRiskActions:    []string{},
			OverallRiskLevel:  models.RiskLow,
		},
	}
}

// selectPlaybook scores every playbook by counting (match message, trigger
// keyword) substring hits and returns the highest scorer. Ties keep the
// first-declared playbook; an all-zero score falls back to the default.
func (r *Recommender) selectPlaybook(matches []models.PatternMatch) rules.Playbook {
	best := -1
	bestScore := 0
	for i, pb := range r.rules.Playbooks {
		score := 0
		for _, match := range matches {
			lower := strings.ToLower(match.Message)
			for _, trigger := range pb.Triggers {
				if strings.Contains(lower, trigger) {
					score++
				}
			}
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 {
		return r.rules.Playbooks[best]
	}
	if pb, ok := r.rules.PlaybookByName(r.rules.DefaultPlaybook); ok {
		return pb
	}
	return rules.Playbook{}
}

// buildActions unions the playbook's automated and manual actions with any
// contextual actions synthesised from specific match keywords.
func (r *Recommender) buildActions(pb rules.Playbook, matches []models.PatternMatch) []models.Action {
	actions := make([]models.Action, 0, len(pb.AutomatedActions)+len(pb.ManualActions)+2)
	for _, tpl := range pb.AutomatedActions {
		actions = append(actions, fromTemplate(tpl))
	}
	for _, tpl := range pb.ManualActions {
		actions = append(actions, fromTemplate(tpl))
	}
	return append(actions, contextualActions(matches)...)
}

func fromTemplate(tpl rules.ActionTemplate) models.Action {
	return models.Action{
		Name:            tpl.Name,
		Description:     tpl.Description,
		AutomationLevel: tpl.AutomationLevel,
		SuccessRate:     tpl.SuccessRate,
		EstimatedTime:   tpl.EstimatedTime,
		RollbackPlan:    tpl.RollbackPlan,
	}
}

func contextualActions(matches []models.PatternMatch) []models.Action {
	var (
		out         []models.Action
		haveTimeout bool
		haveMemory  bool
	)
	for _, match := range matches {
		lower := strings.ToLower(match.Message)
		severe := match.Severity == models.SeverityHigh || match.Severity == models.SeverityCritical
		if !haveTimeout && severe && strings.Contains(lower, "timeout") {
			haveTimeout = true
			out = append(out, models.Action{
				Name:            "increase_timeout_limits",
				Description:     "Raise request and connection timeout limits for the affected path",
				AutomationLevel: models.AutomationSemiAutomated,
				SuccessRate:     0.80,
				EstimatedTime:   "10_minutes",
				RollbackPlan:    "Restore the previous timeout configuration",
			})
		}
		if !haveMemory && strings.Contains(lower, "memory") && strings.Contains(lower, "leak") {
			haveMemory = true
			out = append(out, models.Action{
				Name:            "memory_analysis",
				Description:     "Capture and analyse heap profiles on the leaking service",
				AutomationLevel: models.AutomationManual,
				SuccessRate:     0.70,
				EstimatedTime:   "45_minutes",
			})
		}
	}
	return out
}

// justification selects the natural-language rationale by action name.
func justification(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "restart"):
		return "Restarting clears accumulated degraded state and usually restores service quickly"
	case strings.Contains(lower, "scale"):
		return "Additional capacity absorbs the current load while the root cause is addressed"
	case strings.Contains(lower, "investigate"):
		return "Targeted investigation confirms the failure mechanism before riskier changes"
	case strings.Contains(lower, "block"):
		return "Blocking the offending source contains the impact immediately"
	default:
		return "Recommended by the matched playbook for this failure family"
	}
}

const (
	scoreBaseCritical = 100
	scoreBaseHigh     = 75
	scoreBaseMedium   = 50
	scoreBaseDefault  = 25
)

func priorityScore(action models.Action, priority models.Priority) float64 {
	score := float64(scoreBaseDefault)
	switch priority {
	case models.PriorityCritical:
		score = scoreBaseCritical
	case models.PriorityHigh:
		score = scoreBaseHigh
	case models.PriorityMedium:
		score = scoreBaseMedium
	}

	switch action.AutomationLevel {
	case models.AutomationAutomated:
		score += 20
	case models.AutomationSemiAutomated:
		score += 15
	}

	score += math.Round(action.SuccessRate * 30)

	switch {
	case strings.Contains(action.EstimatedTime, "minutes"):
		score += 10
	case strings.Contains(action.EstimatedTime, "hour"):
		score += 5
	}
	return score
}

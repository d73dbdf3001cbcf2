// Package incident derives an incident type, priority and impact estimate
// from a batch of pattern matches.
package incident

import (
	"sort"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/rules"
)

// highPriorityThreshold is the high-severity match count above which an
// incident escalates from medium to high.
const highPriorityThreshold = 2

// Classifier turns pattern matches into an IncidentAnalysis using the
// escalation and impact lookup tables. Stateless, safe for concurrent use.
type Classifier struct {
	rules *rules.Set
}

// New constructs a Classifier over the supplied rule set.
func New(set *rules.Set) *Classifier {
	if set == nil {
		set = rules.Default()
	}
	return &Classifier{rules: set}
}

// Classify assigns an incident type and priority for the matches. Typing
// follows the first matched category in arrival order; priority follows
// the severity cascade (any critical wins, then high-severity counts).
func (c *Classifier) Classify(matches []models.PatternMatch) models.IncidentAnalysis {
	analysis := models.IncidentAnalysis{
		IncidentType: c.incidentType(matches),
		MatchCount:   len(matches),
	}

	for _, match := range matches {
		switch match.Severity {
		case models.SeverityCritical:
			analysis.CriticalMatchCount++
		case models.SeverityHigh:
			analysis.HighSeverityMatchCnt++
		}
	}
	analysis.Priority = c.priority(analysis.CriticalMatchCount, analysis.HighSeverityMatchCnt)
	analysis.AffectedServices = c.affectedServices(matches)
	analysis.BusinessImpact = c.businessImpact(analysis.Priority, len(matches))
	analysis.RootCauseHypotheses = c.hypotheses(matches)
	return analysis
}

// incidentType maps the first matched category to its incident family.
// First-match is the documented policy; it is not a majority vote.
func (c *Classifier) incidentType(matches []models.PatternMatch) models.IncidentType {
	if len(matches) == 0 {
		return models.IncidentInfrastructureFailure
	}
	switch matches[0].Category {
	case models.CategoryDatabase:
		return models.IncidentDatabaseFailure
	case models.CategoryAPI:
		return models.IncidentAPIDegradation
	case models.CategoryPerformance:
		return models.IncidentPerformanceIssue
	case models.CategorySecurity:
		return models.IncidentSecurityBreach
	default:
		return models.IncidentInfrastructureFailure
	}
}

func (c *Classifier) priority(criticalCount, highCount int) models.Priority {
	switch {
	case criticalCount > 0:
		return models.PriorityCritical
	case highCount > highPriorityThreshold:
		return models.PriorityHigh
	case highCount > 0:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func (c *Classifier) affectedServices(matches []models.PatternMatch) []string {
	tagged := make(map[string]bool)
	for _, match := range matches {
		lower := strings.ToLower(match.Message)
		for _, rule := range c.rules.ServiceTags {
			for _, keyword := range rule.Keywords {
				if strings.Contains(lower, keyword) {
					tagged[rule.Service] = true
					break
				}
			}
		}
	}

	services := make([]string, 0, len(tagged))
	for service := range tagged {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}

func (c *Classifier) businessImpact(priority models.Priority, matchCount int) models.BusinessImpact {
	impact := c.rules.Impacts[priority]
	switch {
	case matchCount > 100:
		impact.UserScale = "large"
		impact.EstimatedUsersMax = 10000
	case matchCount > 50:
		impact.UserScale = "medium"
		impact.EstimatedUsersMax = 5000
	case matchCount > 10:
		impact.UserScale = "small"
		impact.EstimatedUsersMax = 1000
	default:
		impact.UserScale = "limited"
		impact.EstimatedUsersMax = 100
	}
	return impact
}

// hypotheses returns the lookup-table hypotheses for every distinct matched
// category, ordered by first appearance.
func (c *Classifier) hypotheses(matches []models.PatternMatch) []models.RootCauseHypothesis {
	seen := make(map[models.Category]bool)
	var out []models.RootCauseHypothesis
	for _, match := range matches {
		if seen[match.Category] {
			continue
		}
		seen[match.Category] = true
		out = append(out, c.rules.Hypotheses[match.Category]...)
	}
	return out
}

// Package planner expands an incident analysis into a response plan using
// the per-type templates and the escalation matrix.
package planner

import (
	"fmt"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/rules"
)

// Builder assembles response plans. Stateless, safe for concurrent use.
type Builder struct {
	rules *rules.Set
}

// New constructs a Builder over the supplied rule set.
func New(set *rules.Set) *Builder {
	if set == nil {
		set = rules.Default()
	}
	return &Builder{rules: set}
}

// Build combines the template for the incident type with the escalation
// entry for its priority. Unknown incident types fall back to the generic
// template; the plan never fails to build.
func (b *Builder) Build(analysis models.IncidentAnalysis, now time.Time) models.ResponsePlan {
	template := b.rules.TemplateFor(analysis.IncidentType)
	escalation := b.rules.EscalationFor(analysis.Priority)
	now = now.UTC()

	return models.ResponsePlan{
		IncidentID:         incidentID(now),
		IncidentType:       analysis.IncidentType,
		Priority:           analysis.Priority,
		CreatedAt:          now,
		ImmediateActions:   append([]string(nil), template.ImmediateActions...),
		MitigationSteps:    append([]string(nil), template.MitigationSteps...),
		PreventionMeasures: append([]string(nil), template.PreventionMeasures...),
		Escalation:         escalation,
		SuccessCriteria:    append([]string(nil), template.SuccessCriteria...),
	}
}

// incidentID derives an identifier from the wall clock. Collisions are not
// possible within normal clock resolution but uniqueness is not a
// cryptographic guarantee; callers needing that supply their own IDs.
func incidentID(now time.Time) string {
	return fmt.Sprintf("inc-%s-%d", now.Format("20060102T150405"), now.Nanosecond())
}

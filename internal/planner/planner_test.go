package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

func TestBuildUsesTypeTemplateAndPriorityEscalation(t *testing.T) {
	b := New(nil)
	now := time.Date(2025, 6, 20, 10, 15, 0, 42, time.UTC)

	plan := b.Build(models.IncidentAnalysis{
		IncidentType: models.IncidentDatabaseFailure,
		Priority:     models.PriorityCritical,
	}, now)

	if plan.IncidentType != models.IncidentDatabaseFailure {
		t.Fatalf("unexpected incident type %s", plan.IncidentType)
	}
	if len(plan.ImmediateActions) == 0 || len(plan.SuccessCriteria) == 0 {
		t.Fatal("expected template content in the plan")
	}
	if plan.Escalation.ResponseTime != "15_minutes" {
		t.Fatalf("expected critical escalation entry, got %q", plan.Escalation.ResponseTime)
	}
	if len(plan.Escalation.Stakeholders) == 0 || len(plan.Escalation.Channels) == 0 {
		t.Fatal("expected stakeholders and channels from the escalation matrix")
	}
	if !plan.CreatedAt.Equal(now) {
		t.Fatalf("expected CreatedAt %v, got %v", now, plan.CreatedAt)
	}
}

func TestBuildUnknownTypeFallsBackToGenericTemplate(t *testing.T) {
	b := New(nil)

	plan := b.Build(models.IncidentAnalysis{
		IncidentType: models.IncidentType("satellite_failure"),
		Priority:     models.PriorityLow,
	}, time.Now())

	found := false
	for _, criterion := range plan.SuccessCriteria {
		if criterion == "incident resolved" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected generic success criteria, got %v", plan.SuccessCriteria)
	}
}

func TestIncidentIDDerivedFromTimestamp(t *testing.T) {
	b := New(nil)
	now := time.Date(2025, 6, 20, 10, 15, 0, 7, time.UTC)

	plan := b.Build(models.IncidentAnalysis{Priority: models.PriorityLow}, now)
	if !strings.HasPrefix(plan.IncidentID, "inc-20250620T101500") {
		t.Fatalf("unexpected incident id %q", plan.IncidentID)
	}
}

package incident

import (
	"testing"

	"github.com/triagestack/triage-engine/internal/models"
)

func match(category models.Category, severity models.Severity, message string) models.PatternMatch {
	return models.PatternMatch{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Timestamp: "2025-06-20T01:00:00Z",
	}
}

func TestIncidentTypeFirstMatchPolicy(t *testing.T) {
	c := New(nil)

	// api arrives first even though database matches dominate.
	matches := []models.PatternMatch{
		match(models.CategoryAPI, models.SeverityLow, "api error 500"),
		match(models.CategoryDatabase, models.SeverityLow, "database error"),
		match(models.CategoryDatabase, models.SeverityLow, "database error"),
		match(models.CategoryDatabase, models.SeverityLow, "database error"),
	}

	analysis := c.Classify(matches)
	if analysis.IncidentType != models.IncidentAPIDegradation {
		t.Fatalf("expected api_degradation, got %s", analysis.IncidentType)
	}
}

func TestIncidentTypeDefault(t *testing.T) {
	c := New(nil)
	analysis := c.Classify(nil)
	if analysis.IncidentType != models.IncidentInfrastructureFailure {
		t.Fatalf("expected infrastructure_failure, got %s", analysis.IncidentType)
	}
	if analysis.Priority != models.PriorityLow {
		t.Fatalf("expected low priority, got %s", analysis.Priority)
	}
}

func TestPriorityCriticalShortCircuits(t *testing.T) {
	c := New(nil)

	matches := []models.PatternMatch{
		match(models.CategoryDatabase, models.SeverityLow, "database notice"),
		match(models.CategoryDatabase, models.SeverityLow, "database notice"),
		match(models.CategoryDatabase, models.SeverityCritical, "fatal database crash"),
	}

	analysis := c.Classify(matches)
	if analysis.Priority != models.PriorityCritical {
		t.Fatalf("one critical match must yield critical priority, got %s", analysis.Priority)
	}
}

func TestPriorityHighSeverityCascade(t *testing.T) {
	c := New(nil)

	cases := []struct {
		highCount int
		want      models.Priority
	}{
		{0, models.PriorityLow},
		{1, models.PriorityMedium},
		{2, models.PriorityMedium},
		{3, models.PriorityHigh},
	}

	for _, tc := range cases {
		var matches []models.PatternMatch
		for i := 0; i < tc.highCount; i++ {
			matches = append(matches, match(models.CategoryAPI, models.SeverityHigh, "request failed"))
		}
		analysis := c.Classify(matches)
		if analysis.Priority != tc.want {
			t.Fatalf("highCount=%d: expected %s, got %s", tc.highCount, tc.want, analysis.Priority)
		}
	}
}

func TestAffectedServicesTagging(t *testing.T) {
	c := New(nil)

	matches := []models.PatternMatch{
		match(models.CategoryDatabase, models.SeverityMedium, "sql timeout on primary database"),
		match(models.CategoryAPI, models.SeverityHigh, "api request failed for login endpoint"),
	}

	analysis := c.Classify(matches)
	want := map[string]bool{"api_gateway": true, "database": true, "authentication": true}
	if len(analysis.AffectedServices) != len(want) {
		t.Fatalf("expected %d services, got %v", len(want), analysis.AffectedServices)
	}
	for _, service := range analysis.AffectedServices {
		if !want[service] {
			t.Fatalf("unexpected service %q", service)
		}
	}
}

func TestBusinessImpactScaleBands(t *testing.T) {
	c := New(nil)

	cases := []struct {
		matchCount int
		wantScale  string
	}{
		{5, "limited"},
		{11, "small"},
		{51, "medium"},
		{101, "large"},
	}

	for _, tc := range cases {
		matches := make([]models.PatternMatch, tc.matchCount)
		for i := range matches {
			matches[i] = match(models.CategoryPerformance, models.SeverityLow, "memory leak detected")
		}
		analysis := c.Classify(matches)
		if analysis.BusinessImpact.UserScale != tc.wantScale {
			t.Fatalf("matchCount=%d: expected scale %q, got %q", tc.matchCount, tc.wantScale, analysis.BusinessImpact.UserScale)
		}
	}
}

func TestHypothesesFollowMatchedCategories(t *testing.T) {
	c := New(nil)

	matches := []models.PatternMatch{
		match(models.CategoryDatabase, models.SeverityMedium, "connection timeout"),
	}

	analysis := c.Classify(matches)
	if len(analysis.RootCauseHypotheses) == 0 {
		t.Fatal("expected hypotheses for the database category")
	}
	for _, h := range analysis.RootCauseHypotheses {
		if h.Confidence <= 0 || h.Confidence > 1 {
			t.Fatalf("confidence out of range: %f", h.Confidence)
		}
	}
}

package signatures

import (
	"testing"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

func report(incidentType models.IncidentType, generatedAt time.Time, categories []models.Category, actions ...string) models.AnalysisReport {
	var matches []models.PatternMatch
	for _, category := range categories {
		matches = append(matches, models.PatternMatch{Category: category, Message: "m", Timestamp: "2025-06-20T01:00:00Z"})
	}
	var recommended []models.Action
	for _, name := range actions {
		recommended = append(recommended, models.Action{Name: name})
	}
	return models.AnalysisReport{
		ReportGeneratedAt:  generatedAt,
		PatternsFound:      matches,
		IncidentAnalysis:   models.IncidentAnalysis{IncidentType: incidentType},
		RecommendedActions: recommended,
	}
}

func TestMineGroupsByTypeAndCategorySet(t *testing.T) {
	m := NewMiner(nil)
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	reports := []models.AnalysisReport{
		report(models.IncidentDatabaseFailure, now, []models.Category{models.CategoryDatabase}, "restart_connection_pool"),
		report(models.IncidentDatabaseFailure, now.Add(time.Hour), []models.Category{models.CategoryDatabase}, "restart_connection_pool", "scale_database_resources"),
		report(models.IncidentSecurityBreach, now, []models.Category{models.CategorySecurity}, "block_suspicious_sources"),
	}

	signatures := m.Mine(reports)
	if len(signatures) != 2 {
		t.Fatalf("expected 2 signatures, got %d", len(signatures))
	}

	top := signatures[0]
	if top.IncidentType != models.IncidentDatabaseFailure {
		t.Fatalf("most prevalent signature should be the database one, got %s", top.IncidentType)
	}
	if top.Occurrences != 2 {
		t.Fatalf("expected 2 occurrences, got %d", top.Occurrences)
	}
	if top.Prevalence <= signatures[1].Prevalence {
		t.Fatal("signatures must sort by descending prevalence")
	}
	if !top.LastSeen.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected last seen %v", top.LastSeen)
	}
	if len(top.TopActions) == 0 || top.TopActions[0] != "restart_connection_pool" {
		t.Fatalf("expected restart_connection_pool as top action, got %v", top.TopActions)
	}
}

func TestMineDistinguishesCategorySets(t *testing.T) {
	m := NewMiner(nil)
	now := time.Now().UTC()

	reports := []models.AnalysisReport{
		report(models.IncidentDatabaseFailure, now, []models.Category{models.CategoryDatabase}),
		report(models.IncidentDatabaseFailure, now, []models.Category{models.CategoryDatabase, models.CategoryPerformance}),
	}

	signatures := m.Mine(reports)
	if len(signatures) != 2 {
		t.Fatalf("different category sets must yield distinct signatures, got %d", len(signatures))
	}
}

func TestMineEmptyHistory(t *testing.T) {
	m := NewMiner(nil)
	if got := m.Mine(nil); got != nil {
		t.Fatalf("expected nil for empty history, got %v", got)
	}
}

// Package signatures mines recurring incident shapes from report history.
package signatures

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

// Miner aggregates stored reports into frequency-based incident signatures.
type Miner struct {
	logger *slog.Logger
}

// NewMiner constructs a Miner.
func NewMiner(logger *slog.Logger) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{logger: logger}
}

// Mine groups reports by (incident type, matched category set) and returns
// one signature per group, most prevalent first.
func (m *Miner) Mine(reports []models.AnalysisReport) []models.IncidentSignature {
	if len(reports) == 0 {
		return nil
	}

	groups := make(map[string]*signatureAggregate)
	for _, report := range reports {
		categories := distinctCategories(report.PatternsFound)
		key := signatureKey(report.IncidentAnalysis.IncidentType, categories)

		agg, ok := groups[key]
		if !ok {
			agg = &signatureAggregate{
				incidentType: report.IncidentAnalysis.IncidentType,
				categories:   categories,
				actionCounts: make(map[string]int),
			}
			groups[key] = agg
		}
		agg.occurrences++
		if report.ReportGeneratedAt.After(agg.lastSeen) {
			agg.lastSeen = report.ReportGeneratedAt
		}
		for _, action := range report.RecommendedActions {
			agg.actionCounts[action.Name]++
		}
	}

	signatures := make([]models.IncidentSignature, 0, len(groups))
	for key, agg := range groups {
		signatures = append(signatures, models.IncidentSignature{
			ID:           "sig-" + key,
			IncidentType: agg.incidentType,
			Categories:   agg.categories,
			Occurrences:  agg.occurrences,
			Prevalence:   float64(agg.occurrences) / float64(len(reports)),
			TopActions:   agg.topActions(3),
			LastSeen:     agg.lastSeen,
		})
	}

	sort.Slice(signatures, func(i, j int) bool {
		if signatures[i].Prevalence != signatures[j].Prevalence {
			return signatures[i].Prevalence > signatures[j].Prevalence
		}
		return signatures[i].ID < signatures[j].ID
	})

	m.logger.Debug("signatures mined",
		slog.Int("reports", len(reports)), slog.Int("signatures", len(signatures)))
	return signatures
}

type signatureAggregate struct {
	incidentType models.IncidentType
	categories   []models.Category
	occurrences  int
	lastSeen     time.Time
	actionCounts map[string]int
}

func (agg *signatureAggregate) topActions(limit int) []string {
	actions := make([]string, 0, len(agg.actionCounts))
	for name := range agg.actionCounts {
		actions = append(actions, name)
	}
	sort.Slice(actions, func(i, j int) bool {
		if agg.actionCounts[actions[i]] != agg.actionCounts[actions[j]] {
			return agg.actionCounts[actions[i]] > agg.actionCounts[actions[j]]
		}
		return actions[i] < actions[j]
	})
	if len(actions) > limit {
		actions = actions[:limit]
	}
	return actions
}

func distinctCategories(matches []models.PatternMatch) []models.Category {
	seen := make(map[models.Category]bool)
	var categories []models.Category
	for _, match := range matches {
		if seen[match.Category] {
			continue
		}
		seen[match.Category] = true
		categories = append(categories, match.Category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

func signatureKey(incidentType models.IncidentType, categories []models.Category) string {
	parts := make([]string, 0, len(categories)+1)
	parts = append(parts, string(incidentType))
	for _, category := range categories {
		parts = append(parts, string(category))
	}
	return strings.Join(parts, "+")
}

// Package classifier matches raw log messages against the category and
// severity rule tables.
package classifier

import (
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/rules"
)

// Classifier applies category pattern tables and severity tiers to log
// messages. It holds no mutable state and is safe for concurrent use.
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

// Result carries the matches for one batch plus processing counters.
// Processed+Skipped always equals the batch length.
type Result struct {
	Matches   []models.PatternMatch
	Processed int
	Skipped   int
}

// Classify runs every entry in the batch through the category tables.
// Entries without a message or timestamp are skipped and counted.
func (c *Classifier) Classify(batch []models.LogEntry) Result {
	result := Result{Matches: make([]models.PatternMatch, 0, len(batch))}
	for _, entry := range batch {
		if !entry.Valid() {
			result.Skipped++
			continue
		}
		result.Processed++
		result.Matches = append(result.Matches, c.MatchMessage(entry.Message, entry.Timestamp)...)
	}
	return result
}

// MatchMessage returns every (category, rule) match for one message. All
// rules are evaluated; there is no first-match short-circuit.
func (c *Classifier) MatchMessage(message, timestamp string) []models.PatternMatch {
	if message == "" {
		return nil
	}

	severity := c.Severity(message)
	var matches []models.PatternMatch
	for _, table := range c.rules.Categories {
		for _, rule := range table.Rules {
			if rule.Pattern.MatchString(message) {
				matches = append(matches, models.PatternMatch{
					Category:  table.Category,
					RuleID:    rule.ID,
					Message:   message,
					Timestamp: timestamp,
					Severity:  severity,
				})
			}
		}
	}
	return matches
}

// Severity resolves the message severity by scanning the tiers in priority
// order and returning the first tier with a keyword hit. Messages matching
// no tier default to low.
func (c *Classifier) Severity(message string) models.Severity {
	lower := strings.ToLower(message)
	for _, tier := range c.rules.SeverityTiers {
		for _, keyword := range tier.Keywords {
			if strings.Contains(lower, keyword) {
				return tier.Severity
			}
		}
	}
	return models.SeverityLow
}

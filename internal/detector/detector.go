// Package detector finds rate spikes and cross-category correlations in
// hour-bucketed log activity.
package detector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/triagestack/triage-engine/internal/models"
)

// spikeMultiplier is the factor over the per-bucket average above which a
// bucket counts as a spike.
const spikeMultiplier = 2.0

// Detector buckets log activity by hour and flags spikes and correlations.
// It is stateless and safe for concurrent use.
type Detector struct{}

// New constructs a Detector.
func New() *Detector {
	return &Detector{}
}

// DetectSpikes flags hour buckets whose error volume exceeds twice the
// average across all buckets. Entries count toward the baseline when their
// message contains "error" (case-insensitive). With zero qualifying
// buckets there is no average and no spikes are reported.
func (d *Detector) DetectSpikes(batch []models.LogEntry) []models.Anomaly {
	counts := make(map[string]int)
	total := 0
	for _, entry := range batch {
		if !entry.Valid() {
			continue
		}
		if !strings.Contains(strings.ToLower(entry.Message), "error") {
			continue
		}
		counts[entry.HourBucket()]++
		total++
	}
	if len(counts) == 0 {
		return nil
	}

	avg := float64(total) / float64(len(counts))
	threshold := spikeMultiplier * avg

	buckets := make([]string, 0, len(counts))
	for bucket := range counts {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	var anomalies []models.Anomaly
	for _, bucket := range buckets {
		count := counts[bucket]
		if float64(count) > threshold {
			anomalies = append(anomalies, models.Anomaly{
				Kind:          models.AnomalyKindErrorSpike,
				TimeBucket:    bucket,
				ObservedCount: count,
				Threshold:     threshold,
				Description:   fmt.Sprintf("Error spike detected: %d errors vs average %.1f", count, avg),
			})
		}
	}
	return anomalies
}

// Correlate reports every hour bucket in which matches from two or more
// distinct categories co-occur.
func (d *Detector) Correlate(matches []models.PatternMatch) []models.Correlation {
	type bucketAgg struct {
		categories map[models.Category]bool
		count      int
	}

	byBucket := make(map[string]*bucketAgg)
	for _, match := range matches {
		bucket := match.HourBucket()
		agg, ok := byBucket[bucket]
		if !ok {
			agg = &bucketAgg{categories: make(map[models.Category]bool)}
			byBucket[bucket] = agg
		}
		agg.categories[match.Category] = true
		agg.count++
	}

	buckets := make([]string, 0, len(byBucket))
	for bucket := range byBucket {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	var correlations []models.Correlation
	for _, bucket := range buckets {
		agg := byBucket[bucket]
		if len(agg.categories) < 2 {
			continue
		}
		categories := make([]models.Category, 0, len(agg.categories))
		for category := range agg.categories {
			categories = append(categories, category)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		names := make([]string, len(categories))
		for i, category := range categories {
			names[i] = string(category)
		}
		correlations = append(correlations, models.Correlation{
			TimeBucket:  bucket,
			Categories:  categories,
			MatchCount:  agg.count,
			Description: fmt.Sprintf("Multiple issues detected: %s", strings.Join(names, ", ")),
		})
	}
	return correlations
}

// Trend compares error volume in the current batch against a baseline
// window. It returns nil when no baseline is supplied: trend figures are
// never fabricated from a single window.
func (d *Detector) Trend(current, baseline []models.LogEntry, comparisonWindow string) *models.Trend {
	if len(baseline) == 0 {
		return nil
	}

	currentErrors := countErrors(current)
	baselineErrors := countErrors(baseline)
	if baselineErrors == 0 {
		return nil
	}

	change := (float64(currentErrors) - float64(baselineErrors)) / float64(baselineErrors) * 100

	direction := models.TrendStable
	switch {
	case change > 5:
		direction = models.TrendIncreasing
	case change < -5:
		direction = models.TrendDecreasing
	}
	if comparisonWindow == "" {
		comparisonWindow = "previous_window"
	}

	return &models.Trend{
		Kind:             "error_frequency",
		Direction:        direction,
		ChangePercent:    change,
		ComparisonWindow: comparisonWindow,
		Description:      fmt.Sprintf("Error frequency %s by %.1f%% versus %s", direction, change, comparisonWindow),
	}
}

func countErrors(batch []models.LogEntry) int {
	count := 0
	for _, entry := range batch {
		if entry.Valid() && strings.Contains(strings.ToLower(entry.Message), "error") {
			count++
		}
	}
	return count
}

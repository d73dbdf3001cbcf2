package detector

import (
	"fmt"
	"testing"

	"github.com/triagestack/triage-engine/internal/models"
)

func entry(message, timestamp string) models.LogEntry {
	return models.LogEntry{Message: message, Timestamp: timestamp}
}

func TestDetectSpikesSkewedBucket(t *testing.T) {
	d := New()

	// 8 errors in one hour against 1 error in each of two other hours:
	// avg = 10/3 ≈ 3.33, threshold ≈ 6.67, so only the first bucket spikes.
	var batch []models.LogEntry
	for i := 0; i < 8; i++ {
		batch = append(batch, entry(fmt.Sprintf("error %d in checkout", i), "2025-06-20T01:05:00Z"))
	}
	batch = append(batch,
		entry("error in billing", "2025-06-20T02:05:00Z"),
		entry("error in search", "2025-06-20T03:05:00Z"),
	)

	anomalies := d.DetectSpikes(batch)
	if len(anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(anomalies))
	}
	a := anomalies[0]
	if a.TimeBucket != "2025-06-20T01" {
		t.Fatalf("unexpected bucket %q", a.TimeBucket)
	}
	if a.ObservedCount != 8 {
		t.Fatalf("expected observed count 8, got %d", a.ObservedCount)
	}
	if a.Kind != models.AnomalyKindErrorSpike {
		t.Fatalf("unexpected kind %q", a.Kind)
	}
}

func TestDetectSpikesSingleBucketNeverFlags(t *testing.T) {
	d := New()

	// One bucket: count == total, so count can never exceed 2*avg.
	var batch []models.LogEntry
	for i := 0; i < 5; i++ {
		batch = append(batch, entry("error in payment flow", "2025-06-20T01:00:00Z"))
	}

	if anomalies := d.DetectSpikes(batch); len(anomalies) != 0 {
		t.Fatalf("single bucket must not spike, got %d anomalies", len(anomalies))
	}
}

func TestDetectSpikesEmptyBatch(t *testing.T) {
	d := New()
	if anomalies := d.DetectSpikes(nil); anomalies != nil {
		t.Fatalf("expected nil anomalies for empty batch, got %v", anomalies)
	}
}

func TestCorrelateRequiresTwoCategories(t *testing.T) {
	d := New()

	matches := []models.PatternMatch{
		{Category: models.CategoryDatabase, Timestamp: "2025-06-20T01:10:00Z"},
		{Category: models.CategoryAPI, Timestamp: "2025-06-20T01:20:00Z"},
		{Category: models.CategoryDatabase, Timestamp: "2025-06-20T02:10:00Z"},
		{Category: models.CategoryDatabase, Timestamp: "2025-06-20T02:20:00Z"},
	}

	correlations := d.Correlate(matches)
	if len(correlations) != 1 {
		t.Fatalf("expected 1 correlation, got %d", len(correlations))
	}
	c := correlations[0]
	if c.TimeBucket != "2025-06-20T01" {
		t.Fatalf("unexpected bucket %q", c.TimeBucket)
	}
	if len(c.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", c.Categories)
	}
	if c.MatchCount != 2 {
		t.Fatalf("expected match count 2, got %d", c.MatchCount)
	}
}

func TestTrendRequiresBaseline(t *testing.T) {
	d := New()

	current := []models.LogEntry{entry("error a", "2025-06-20T01:00:00Z")}
	if trend := d.Trend(current, nil, "previous_24h"); trend != nil {
		t.Fatalf("expected nil trend without baseline, got %+v", trend)
	}
}

func TestTrendDirection(t *testing.T) {
	d := New()

	baseline := []models.LogEntry{
		entry("error a", "2025-06-19T01:00:00Z"),
		entry("error b", "2025-06-19T02:00:00Z"),
	}
	current := []models.LogEntry{
		entry("error a", "2025-06-20T01:00:00Z"),
		entry("error b", "2025-06-20T02:00:00Z"),
		entry("error c", "2025-06-20T03:00:00Z"),
	}

	trend := d.Trend(current, baseline, "previous_24h")
	if trend == nil {
		t.Fatal("expected trend with baseline present")
	}
	if trend.Direction != models.TrendIncreasing {
		t.Fatalf("expected increasing, got %s", trend.Direction)
	}
	if trend.ChangePercent != 50 {
		t.Fatalf("expected +50%%, got %.1f", trend.ChangePercent)
	}
	if trend.ComparisonWindow != "previous_24h" {
		t.Fatalf("unexpected comparison window %q", trend.ComparisonWindow)
	}
}

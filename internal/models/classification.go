package models

// Category enumerates the failure families the classifier recognises.
type Category string

const (
	CategoryDatabase    Category = "database"
	CategoryAPI         Category = "api"
	CategoryPerformance Category = "performance"
	CategorySecurity    Category = "security"
)

// Severity captures impact levels, ordered critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// PatternMatch associates a log message with a category rule it satisfies.
// A single log may yield zero or several matches.
type PatternMatch struct {
	Category  Category `json:"category"`
	RuleID    string   `json:"rule_id"`
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	Severity  Severity `json:"severity"`
}

// HourBucket returns the hour partition key for the match timestamp.
func (m PatternMatch) HourBucket() string {
	if len(m.Timestamp) < 13 {
		return m.Timestamp
	}
	return m.Timestamp[:13]
}

// Anomaly flags a time bucket whose error volume exceeds the spike threshold.
type Anomaly struct {
	Kind          string  `json:"kind"`
	TimeBucket    string  `json:"time_bucket"`
	ObservedCount int     `json:"observed_count"`
	Threshold     float64 `json:"threshold"`
	Description   string  `json:"description"`
}

// AnomalyKindErrorSpike is the only anomaly kind currently emitted.
const AnomalyKindErrorSpike = "error_spike"

// Correlation records distinct failure categories co-occurring in one bucket.
type Correlation struct {
	TimeBucket  string     `json:"time_bucket"`
	Categories  []Category `json:"categories"`
	MatchCount  int        `json:"match_count"`
	Description string     `json:"description"`
}

// Trend summarises error-volume direction versus a comparison window. It is
// advisory and only produced when baseline data exists; absent baselines
// yield no trend rather than an invented figure.
type Trend struct {
	Kind             string  `json:"kind"`
	Direction        string  `json:"direction"`
	ChangePercent    float64 `json:"change_percent"`
	ComparisonWindow string  `json:"comparison_window"`
	Description      string  `json:"description"`
}

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

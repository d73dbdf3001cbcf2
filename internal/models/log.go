package models

// LogEntry is a single raw telemetry record supplied by the caller. Only
// Message and Timestamp are required; the remaining fields are carried
// through when the log source provides them.
type LogEntry struct {
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	Severity     string `json:"severity,omitempty"`
	AgentID      string `json:"agent_id,omitempty"`
	ExperimentID string `json:"experiment_id,omitempty"`
	Region       string `json:"region,omitempty"`
}

// Valid reports whether the entry carries the fields the pipeline needs.
// Entries failing this check are skipped and counted, never fatal.
func (e LogEntry) Valid() bool {
	return e.Message != "" && e.Timestamp != ""
}

// HourBucket returns the hour-granularity partition key for the entry,
// the first 13 characters of the ISO-8601 timestamp (YYYY-MM-DDTHH).
func (e LogEntry) HourBucket() string {
	if len(e.Timestamp) < 13 {
		return e.Timestamp
	}
	return e.Timestamp[:13]
}

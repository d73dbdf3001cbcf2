// Package storage persists analysis reports and operator feedback in
// PostgreSQL. Persistence is optional; the engine runs stateless without it.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagestack/triage-engine/internal/cache"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

// ErrNotFound signals that no report exists for the requested ID.
var ErrNotFound = errors.New("report not found")

// Store wraps the connection pool plus the read-through report cache.
type Store struct {
	pool         *pgxpool.Pool
	logger       *slog.Logger
	cache        cache.Provider
	reportTTL    time.Duration
	queryTimeout time.Duration
}

// Options tunes pool sizing and query behaviour.
type Options struct {
	MaxConns     int32
	QueryTimeout time.Duration
	Cache        cache.Provider
	ReportTTL    time.Duration
}

// New connects to the database at dsn and verifies the connection.
func New(ctx context.Context, dsn string, logger *slog.Logger, opts Options) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopProvider{}
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, utils.NewAppError("storage.New", "parse dsn", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, utils.NewAppError("storage.New", "create pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, utils.NewAppError("storage.New", "ping database", err)
	}

	return &Store{
		pool:         pool,
		logger:       logger,
		cache:        opts.Cache,
		reportTTL:    opts.ReportTTL,
		queryTimeout: opts.QueryTimeout,
	}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the report and feedback tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS analysis_reports (
			report_id UUID PRIMARY KEY,
			generated_at TIMESTAMPTZ NOT NULL,
			incident_type TEXT NOT NULL,
			priority TEXT NOT NULL,
			total_logs_analyzed INT NOT NULL,
			overall_risk_level TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_generated_at
			ON analysis_reports (generated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS report_feedback (
			id BIGSERIAL PRIMARY KEY,
			report_id UUID NOT NULL REFERENCES analysis_reports (report_id),
			correct BOOLEAN NOT NULL,
			effectiveness_score INT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, statement := range statements {
		if _, err := s.pool.Exec(ctx, statement); err != nil {
			return utils.NewAppError("storage.EnsureSchema", "apply schema", err)
		}
	}
	return nil
}

// SaveReport persists the report and primes the cache. An empty ReportID is
// assigned here so callers can persist externally produced reports.
func (s *Store) SaveReport(ctx context.Context, report models.AnalysisReport) error {
	if report.ReportID == "" {
		report.ReportID = uuid.NewString()
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return utils.NewAppError("storage.SaveReport", "marshal report", err)
	}

	query := `
		INSERT INTO analysis_reports
			(report_id, generated_at, incident_type, priority, total_logs_analyzed, overall_risk_level, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err = s.pool.Exec(ctx, query,
		report.ReportID,
		report.ReportGeneratedAt,
		string(report.IncidentAnalysis.IncidentType),
		string(report.IncidentAnalysis.Priority),
		report.TotalLogsAnalyzed,
		string(report.RiskAssessment.OverallRiskLevel),
		payload,
	)
	if err != nil {
		return utils.NewAppError("storage.SaveReport", "insert report", err)
	}

	if err := s.cache.Set(ctx, reportKey(report.ReportID), payload, s.reportTTL); err != nil {
		s.logger.Warn("report cache prime failed", slog.Any("error", err))
	}
	return nil
}

// GetReport resolves a report from cache first, then the database.
func (s *Store) GetReport(ctx context.Context, reportID string) (models.AnalysisReport, error) {
	var report models.AnalysisReport

	if data, err := s.cache.Get(ctx, reportKey(reportID)); err == nil {
		if err := json.Unmarshal(data, &report); err == nil {
			return report, nil
		}
		// Corrupt cache entry: fall through to the database.
		_ = s.cache.Del(ctx, reportKey(reportID))
	}

	query := `SELECT payload FROM analysis_reports WHERE report_id = $1`

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var payload []byte
	err := s.pool.QueryRow(ctx, query, reportID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report, ErrNotFound
		}
		return report, utils.NewAppError("storage.GetReport", "query report", err)
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return report, utils.NewAppError("storage.GetReport", "decode report", err)
	}

	if err := s.cache.Set(ctx, reportKey(reportID), payload, s.reportTTL); err != nil {
		s.logger.Warn("report cache fill failed", slog.Any("error", err))
	}
	return report, nil
}

// ListReports returns summaries matching the filter, newest first.
func (s *Store) ListReports(ctx context.Context, req models.ListReportsRequest) ([]models.ReportSummary, error) {
	query := `
		SELECT report_id, generated_at, incident_type, priority, total_logs_analyzed, overall_risk_level
		FROM analysis_reports
		WHERE ($1 = '' OR incident_type = $1)
		  AND ($2 = '' OR priority = $2)
		  AND generated_at >= $3
		ORDER BY generated_at DESC
		LIMIT $4
	`

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	since := req.Since
	if since.IsZero() {
		since = time.Unix(0, 0).UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, query,
		string(req.IncidentType), string(req.Priority), since, limit)
	if err != nil {
		return nil, utils.NewAppError("storage.ListReports", "query reports", err)
	}
	defer rows.Close()

	summaries := make([]models.ReportSummary, 0, limit)
	for rows.Next() {
		var (
			summary      models.ReportSummary
			incidentType string
			priority     string
			risk         string
		)
		if err := rows.Scan(
			&summary.ReportID,
			&summary.ReportGeneratedAt,
			&incidentType,
			&priority,
			&summary.TotalLogsAnalyzed,
			&risk,
		); err != nil {
			return nil, utils.NewAppError("storage.ListReports", "scan report row", err)
		}
		summary.IncidentType = models.IncidentType(incidentType)
		summary.Priority = models.Priority(priority)
		summary.OverallRiskLevel = models.RiskLevel(risk)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.NewAppError("storage.ListReports", "iterate report rows", err)
	}
	return summaries, nil
}

// SaveFeedback records operator feedback against a stored report.
func (s *Store) SaveFeedback(ctx context.Context, fb models.Feedback) error {
	query := `
		INSERT INTO report_feedback (report_id, correct, effectiveness_score, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	submitted := fb.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, query,
		fb.ReportID, fb.Correct, fb.EffectivenessScore, fb.Notes, submitted)
	if err != nil {
		return utils.NewAppError("storage.SaveFeedback", "insert feedback", err)
	}
	return nil
}

// RecentReports loads full report payloads for signature mining.
func (s *Store) RecentReports(ctx context.Context, since time.Time, limit int) ([]models.AnalysisReport, error) {
	query := `
		SELECT payload
		FROM analysis_reports
		WHERE generated_at >= $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	if limit <= 0 || limit > 2000 {
		limit = 500
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, utils.NewAppError("storage.RecentReports", "query reports", err)
	}
	defer rows.Close()

	var reports []models.AnalysisReport
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, utils.NewAppError("storage.RecentReports", "scan payload", err)
		}
		var report models.AnalysisReport
		if err := json.Unmarshal(payload, &report); err != nil {
			s.logger.Warn("skipping undecodable report payload", slog.Any("error", err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func reportKey(reportID string) string {
	return fmt.Sprintf("report:%s", reportID)
}

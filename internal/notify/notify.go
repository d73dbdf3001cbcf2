// Package notify delivers finished analysis reports to an optional
// webhook consumer. Delivery is fire-and-log: a failed POST never fails
// the analysis that produced the report.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

// Notifier posts reports to the configured consumer URL.
type Notifier struct {
	url        string
	logger     *slog.Logger
	httpClient *http.Client
}

// New constructs a Notifier. An empty URL yields a disabled notifier whose
// Deliver is a no-op.
func New(url string, timeout time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		url:    url,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a consumer URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Deliver posts the report as JSON. Errors are logged and returned so the
// caller can count them, but callers treat delivery as best-effort.
func (n *Notifier) Deliver(ctx context.Context, report models.AnalysisReport) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		n.logger.Error("report webhook marshal failed",
			slog.String("report_id", report.ReportID), slog.Any("error", err))
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("report webhook delivery failed",
			slog.String("report_id", report.ReportID), slog.Any("error", err))
		return fmt.Errorf("deliver report: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		n.logger.Warn("report webhook rejected",
			slog.String("report_id", report.ReportID), slog.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("report delivered",
		slog.String("report_id", report.ReportID), slog.Int("status", resp.StatusCode))
	return nil
}

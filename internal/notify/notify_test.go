package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/triagestack/triage-engine/internal/models"
)

func TestDeliverPostsReport(t *testing.T) {
	var received models.AnalysisReport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := New(server.URL, time.Second, nil)
	report := models.AnalysisReport{ReportID: "r-1", TotalLogsAnalyzed: 3}
	if err := n.Deliver(context.Background(), report); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if received.ReportID != "r-1" {
		t.Fatalf("webhook received %q", received.ReportID)
	}
}

func TestDeliverReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := New(server.URL, time.Second, nil)
	if err := n.Deliver(context.Background(), models.AnalysisReport{ReportID: "r-2"}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestDisabledNotifierIsNoop(t *testing.T) {
	n := New("", time.Second, nil)
	if n.Enabled() {
		t.Fatal("notifier without URL must be disabled")
	}
	if err := n.Deliver(context.Background(), models.AnalysisReport{}); err != nil {
		t.Fatalf("disabled deliver must be a no-op, got %v", err)
	}
}

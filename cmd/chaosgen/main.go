// chaosgen seeds the local log store with synthetic failure logs so the
// triage pipeline has realistic batches to analyse.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/triagestack/triage-engine/internal/logstore"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

type scenario struct {
	message  string
	severity string
}

// Common failure scenarios, phrased so the category rule tables match them.
var scenarios = []scenario{
	{"cpu usage 99% sustained on worker node", "ERROR"},
	{"memory leak detected in checkout service", "ERROR"},
	{"database connection timeout after 30s", "ERROR"},
	{"sql exception while reading orders table", "ERROR"},
	{"deadlock detected on payment transactions", "ERROR"},
	{"rate limit exceeded for client 42", "WARNING"},
	{"api error 503 from upstream inventory service", "ERROR"},
	{"request failed with connection reset", "ERROR"},
	{"authentication failed for service account", "WARNING"},
	{"response time 4200ms on user login", "WARNING"},
	{"disk space low on volume /var/data", "WARNING"},
	{"thread pool exhausted in api gateway", "ERROR"},
	{"failed login attempt from 203.0.113.7", "WARNING"},
	{"suspicious activity on admin endpoint", "WARNING"},
}

// Rare severe scenarios appear with 10% probability, mirroring real chaos
// runs where hard outages are the minority.
var rareScenarios = []scenario{
	{"fatal cluster outage, all regions unavailable", "CRITICAL"},
	{"panic in backend service, data breach attempt suspected", "CRITICAL"},
	{"critical crashloopbackoff on pod, service down", "CRITICAL"},
}

var regions = []string{"us-central1", "europe-west1", "asia-northeast1"}

func main() {
	var (
		count  int
		dbPath string
		asJSON bool
		seed   int64
		spread time.Duration
	)
	flag.IntVar(&count, "count", 100, "Number of log entries to generate")
	flag.StringVar(&dbPath, "db", "chaos_logs.db", "Path to the sqlite log store")
	flag.BoolVar(&asJSON, "json", false, "Emit entries as JSON to stdout instead of writing the store")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 uses the current time)")
	flag.DurationVar(&spread, "spread", 3*time.Hour, "Time window the entries are spread across")
	flag.Parse()

	logger := utils.NewLogger("info", false)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	entries := generate(rng, count, spread)

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		for _, e := range entries {
			if err := encoder.Encode(e); err != nil {
				logger.Error("encode entry", slog.Any("error", err))
				os.Exit(1)
			}
		}
		return
	}

	store, err := logstore.Open(dbPath)
	if err != nil {
		logger.Error("open log store", slog.String("path", dbPath), slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.InsertLogs(ctx, entries); err != nil {
		logger.Error("insert logs", slog.Any("error", err))
		os.Exit(1)
	}

	total, err := store.Count(ctx)
	if err != nil {
		logger.Warn("count logs", slog.Any("error", err))
	}
	logger.Info("chaos logs generated",
		slog.Int("written", len(entries)),
		slog.Int("store_total", total),
		slog.String("path", dbPath),
		slog.Int64("seed", seed),
	)
}

func generate(rng *rand.Rand, count int, spread time.Duration) []models.LogEntry {
	now := time.Now().UTC()
	entries := make([]models.LogEntry, 0, count)
	for i := 0; i < count; i++ {
		s := pick(rng)
		at := now.Add(-time.Duration(rng.Int63n(int64(spread))))
		entries = append(entries, models.LogEntry{
			Message:      fmt.Sprintf("%s during chaos experiment #%d", s.message, i+1),
			Timestamp:    at.Format(time.RFC3339),
			Severity:     s.severity,
			AgentID:      fmt.Sprintf("simulator-bot-%d", rng.Intn(10)+1),
			ExperimentID: fmt.Sprintf("exp%04d", i+1),
			Region:       regions[rng.Intn(len(regions))],
		})
	}
	return entries
}

func pick(rng *rand.Rand) scenario {
	if rng.Float64() < 0.1 {
		return rareScenarios[rng.Intn(len(rareScenarios))]
	}
	return scenarios[rng.Intn(len(scenarios))]
}

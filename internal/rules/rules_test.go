package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/triagestack/triage-engine/internal/models"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(set.Categories) != 4 {
		t.Fatalf("expected 4 default category tables, got %d", len(set.Categories))
	}
	if set.DefaultPlaybook != "performance_degradation" {
		t.Fatalf("unexpected default playbook %q", set.DefaultPlaybook)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	pack := `
categories:
  - category: database
    patterns:
      - id: db-custom
        pattern: "replication.*lag"
severity_tiers:
  - severity: medium
    keywords: ["timeout", "degraded"]
playbook_triggers:
  - playbook: database_connection_issues
    triggers: ["replication"]
`
	if err := os.WriteFile(path, []byte(pack), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var dbTable *CategoryTable
	for i := range set.Categories {
		if set.Categories[i].Category == models.CategoryDatabase {
			dbTable = &set.Categories[i]
		}
	}
	if dbTable == nil || len(dbTable.Rules) != 1 || dbTable.Rules[0].ID != "db-custom" {
		t.Fatalf("database table not replaced: %+v", dbTable)
	}
	if !dbTable.Rules[0].Pattern.MatchString("Replication Lag growing") {
		t.Fatal("override patterns must compile case-insensitive")
	}

	pb, ok := set.PlaybookByName("database_connection_issues")
	if !ok || len(pb.Triggers) != 1 || pb.Triggers[0] != "replication" {
		t.Fatalf("playbook triggers not replaced: %+v", pb.Triggers)
	}

	for _, tier := range set.SeverityTiers {
		if tier.Severity == models.SeverityMedium {
			if len(tier.Keywords) != 2 || tier.Keywords[1] != "degraded" {
				t.Fatalf("medium tier not replaced: %v", tier.Keywords)
			}
		}
	}
}

func TestLoadRejectsInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	pack := `
categories:
  - category: database
    patterns:
      - id: broken
        pattern: "(["
`
	if err := os.WriteFile(path, []byte(pack), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestEscalationFallsBackToLow(t *testing.T) {
	set := Default()
	esc := set.EscalationFor(models.Priority("unknown"))
	if esc.ResponseTime != set.Escalations[models.PriorityLow].ResponseTime {
		t.Fatalf("expected low escalation fallback, got %+v", esc)
	}
}

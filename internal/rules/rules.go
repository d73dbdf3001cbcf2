// Package rules holds the data-driven tables the analytical pipeline runs
// on: category pattern tables, severity tiers, automation playbooks,
// response templates and the escalation matrix. Tables are built once at
// process start and injected into the components that consume them; they
// are never mutated at runtime.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/triagestack/triage-engine/internal/models"
)

// CategoryRule is one compiled pattern within a category table.
type CategoryRule struct {
	ID      string
	Pattern *regexp.Regexp
}

// CategoryTable groups the rules for one failure category. Table order is
// significant: the incident classifier's first-match policy and playbook
// tie-breaking both follow declaration order.
type CategoryTable struct {
	Category models.Category
	Rules    []CategoryRule
}

// SeverityTier pairs a severity with its indicator keywords. Tiers are
// scanned in declaration order, so higher-severity keywords always win
// regardless of position within a tier.
type SeverityTier struct {
	Severity models.Severity
	Keywords []string
}

// ServiceTagRule maps message keywords onto an affected-service tag.
type ServiceTagRule struct {
	Keywords []string
	Service  string
}

// ActionTemplate is an action as declared in a playbook, before scoring.
type ActionTemplate struct {
	Name            string
	Description     string
	AutomationLevel models.AutomationLevel
	SuccessRate     float64
	EstimatedTime   string
	RollbackPlan    string
}

// Playbook bundles trigger keywords with the remediation actions for one
// failure family.
type Playbook struct {
	Name             string
	Triggers         []string
	AutomatedActions []ActionTemplate
	ManualActions    []ActionTemplate
}

// ResponseTemplate is the per-incident-type skeleton of a response plan.
type ResponseTemplate struct {
	ImmediateActions   []string
	MitigationSteps    []string
	PreventionMeasures []string
	SuccessCriteria    []string
}

// Set is the complete, immutable rule configuration for one pipeline.
type Set struct {
	Categories      []CategoryTable
	SeverityTiers   []SeverityTier
	ServiceTags     []ServiceTagRule
	Playbooks       []Playbook
	DefaultPlaybook string
	Templates       map[models.IncidentType]ResponseTemplate
	GenericTemplate ResponseTemplate
	Escalations     map[models.Priority]models.Escalation
	Impacts         map[models.Priority]models.BusinessImpact
	Hypotheses      map[models.Category][]models.RootCauseHypothesis
}

// Default returns the built-in rule set.
func Default() *Set {
	return &Set{
		Categories:      defaultCategories(),
		SeverityTiers:   defaultSeverityTiers(),
		ServiceTags:     defaultServiceTags(),
		Playbooks:       defaultPlaybooks(),
		DefaultPlaybook: "performance_degradation",
		Templates:       defaultTemplates(),
		GenericTemplate: genericTemplate(),
		Escalations:     defaultEscalations(),
		Impacts:         defaultImpacts(),
		Hypotheses:      defaultHypotheses(),
	}
}

// Overrides is the YAML rule-pack structure. Only the sections present in
// the file replace their built-in counterparts.
type Overrides struct {
	Categories []struct {
		Category string `yaml:"category"`
		Patterns []struct {
			ID      string `yaml:"id"`
			Pattern string `yaml:"pattern"`
		} `yaml:"patterns"`
	} `yaml:"categories"`
	SeverityTiers []struct {
		Severity string   `yaml:"severity"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"severity_tiers"`
	PlaybookTriggers []struct {
		Playbook string   `yaml:"playbook"`
		Triggers []string `yaml:"triggers"`
	} `yaml:"playbook_triggers"`
}

// Load returns the default set with any overrides from the YAML file at
// path applied. An empty path or a missing file yields the defaults.
func Load(path string) (*Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("read rule pack: %w", err)
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse rule pack: %w", err)
	}

	if err := set.apply(overrides); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Set) apply(o Overrides) error {
	for _, cat := range o.Categories {
		rules := make([]CategoryRule, 0, len(cat.Patterns))
		for _, p := range cat.Patterns {
			re, err := regexp.Compile("(?i)" + p.Pattern)
			if err != nil {
				return fmt.Errorf("rule pack pattern %q: %w", p.ID, err)
			}
			rules = append(rules, CategoryRule{ID: p.ID, Pattern: re})
		}
		s.replaceCategory(models.Category(cat.Category), rules)
	}

	for _, tier := range o.SeverityTiers {
		for i := range s.SeverityTiers {
			if s.SeverityTiers[i].Severity == models.Severity(tier.Severity) {
				s.SeverityTiers[i].Keywords = append([]string(nil), tier.Keywords...)
			}
		}
	}

	for _, pt := range o.PlaybookTriggers {
		for i := range s.Playbooks {
			if s.Playbooks[i].Name == pt.Playbook {
				s.Playbooks[i].Triggers = append([]string(nil), pt.Triggers...)
			}
		}
	}
	return nil
}

func (s *Set) replaceCategory(category models.Category, rules []CategoryRule) {
	for i := range s.Categories {
		if s.Categories[i].Category == category {
			s.Categories[i].Rules = rules
			return
		}
	}
	s.Categories = append(s.Categories, CategoryTable{Category: category, Rules: rules})
}

// PlaybookByName returns the named playbook, or false when unknown.
func (s *Set) PlaybookByName(name string) (Playbook, bool) {
	for _, pb := range s.Playbooks {
		if pb.Name == name {
			return pb, true
		}
	}
	return Playbook{}, false
}

// TemplateFor returns the response template for the incident type, falling
// back to the generic template for unrecognised types.
func (s *Set) TemplateFor(incidentType models.IncidentType) ResponseTemplate {
	if tpl, ok := s.Templates[incidentType]; ok {
		return tpl
	}
	return s.GenericTemplate
}

// EscalationFor returns the escalation matrix entry for the priority,
// falling back to the low entry.
func (s *Set) EscalationFor(priority models.Priority) models.Escalation {
	if esc, ok := s.Escalations[priority]; ok {
		return esc
	}
	return s.Escalations[models.PriorityLow]
}

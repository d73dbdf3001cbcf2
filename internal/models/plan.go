package models

import "time"

// Escalation carries the communication metadata attached to a response plan.
type Escalation struct {
	ResponseTime    string   `json:"response_time"`
	Stakeholders    []string `json:"stakeholders"`
	Channels        []string `json:"channels"`
	UpdateFrequency string   `json:"update_frequency"`
}

// ResponsePlan is the incident response expanded from a per-type template
// plus the escalation matrix entry for the incident priority.
type ResponsePlan struct {
	IncidentID         string       `json:"incident_id"`
	IncidentType       IncidentType `json:"incident_type"`
	Priority           Priority     `json:"priority"`
	CreatedAt          time.Time    `json:"created_at"`
	ImmediateActions   []string     `json:"immediate_actions"`
	MitigationSteps    []string     `json:"mitigation_steps"`
	PreventionMeasures []string     `json:"prevention_measures"`
	Escalation         Escalation   `json:"escalation"`
	SuccessCriteria    []string     `json:"success_criteria"`
}

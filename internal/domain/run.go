package domain

import "time"

// RunRequest asks an agent to execute the probe plan once.
type RunRequest struct {
	ID          string    `json:"run_id"`
	Language    string    `json:"language,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// OutcomeEvent is published for every ledger transition.
type OutcomeEvent struct {
	RunID     string    `json:"run_id"`
	AgentID   string    `json:"agent_id"`
	Index     int       `json:"index"`
	Outcome   Outcome   `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// RunReport is the settled ledger of one run.
type RunReport struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	AgentID    string    `json:"agent_id" yaml:"agent_id"`
	Language   string    `json:"language" yaml:"language"`
	Network    string    `json:"network,omitempty" yaml:"network,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`
	Counts     Counts    `json:"counts" yaml:"counts"`
}

// Failed reports whether any probe failed.
func (r RunReport) Failed() bool {
	return r.Counts.Fail > 0
}

package domain

import "time"

// Status is the lifecycle state of a single probe within a run.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkip    Status = "skip"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusIdle, StatusRunning, StatusPass, StatusFail, StatusSkip}
}

// Settled reports whether the status is terminal for the run.
func (s Status) Settled() bool {
	return s == StatusPass || s == StatusFail || s == StatusSkip
}

// Outcome is the ledger entry for one probe.
type Outcome struct {
	Name     string `json:"name" yaml:"name"`
	Status   Status `json:"status" yaml:"status"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
	Duration *int64 `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
}

// Elapsed returns the recorded duration, if any.
func (o Outcome) Elapsed() (time.Duration, bool) {
	if o.Duration == nil {
		return 0, false
	}
	return time.Duration(*o.Duration) * time.Millisecond, true
}

// Millis converts d into the optional ledger representation.
func Millis(d time.Duration) *int64 {
	ms := d.Milliseconds()
	return &ms
}

// Counts aggregates outcomes by status.
type Counts struct {
	Pass    int `json:"pass" yaml:"pass"`
	Fail    int `json:"fail" yaml:"fail"`
	Skip    int `json:"skip" yaml:"skip"`
	Running int `json:"running" yaml:"running"`
	Idle    int `json:"idle" yaml:"idle"`
	Total   int `json:"total" yaml:"total"`
}

// CountOutcomes tallies outcomes by status.
func CountOutcomes(outcomes []Outcome) Counts {
	var c Counts
	for _, o := range outcomes {
		switch o.Status {
		case StatusPass:
			c.Pass++
		case StatusFail:
			c.Fail++
		case StatusSkip:
			c.Skip++
		case StatusRunning:
			c.Running++
		default:
			c.Idle++
		}
	}
	c.Total = len(outcomes)
	return c
}

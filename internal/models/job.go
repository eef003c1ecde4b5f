package models

import "encoding/json"

const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// Job is one tracked unit of asynchronous work. The id and action are fixed
// at creation; status only ever moves pending -> running -> succeeded|failed.
type Job struct {
	ID          string          `db:"id" json:"id"`
	Action      string          `db:"action" json:"action"`
	PayloadJSON json.RawMessage `db:"payload_json" json:"payload,omitempty"`
	Status      string          `db:"status" json:"status"`
	ExitCode    *int            `db:"exit_code" json:"exit_code"`
	StdoutTail  string          `db:"stdout_tail" json:"stdout_tail"`
	StderrTail  string          `db:"stderr_tail" json:"stderr_tail"`
	StartedAt   *string         `db:"started_at" json:"started_at"`
	FinishedAt  *string         `db:"finished_at" json:"finished_at"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
}

func (j *Job) Terminal() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

package job

import "time"

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// transitions encodes the allowed lifecycle moves. Completed jobs are
// terminal; failed jobs can only go back to pending via a restart.
var transitions = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true},
	StatusProcessing: {StatusComplete: true, StatusFailed: true},
	StatusFailed:     {StatusPending: true},
}

// CanTransition reports whether moving from s to the target status is a
// legal lifecycle move.
func (s Status) CanTransition(to Status) bool {
	return transitions[s][to]
}

// Terminal reports whether the status accepts no further transitions except
// a restart.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Record tracks one website generation job. The ID is supplied by the
// client and is the only idempotency key: restarting a failed job reuses the
// record instead of creating a new one.
type Record struct {
	ID        string `bson:"_id" json:"jobId"`
	UserID    string `bson:"user_id" json:"userId"`
	Subdomain string `bson:"subdomain" json:"subdomain"`
	Status    Status `bson:"status" json:"status"`
	// Progress is the generation percentage reported by the upstream
	// builder, 0-100.
	Progress int    `bson:"progress" json:"progress"`
	Error    string `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

package model

import "time"

// AssignmentStatus enumerates the lifecycle states of an assignment.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusOverdue    AssignmentStatus = "overdue"
)

// Valid reports whether s is one of the known assignment statuses.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

type Assignment struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	ChoreID     int64            `json:"chore_id"`
	DueAt       time.Time        `json:"due_at"`
	Status      AssignmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at"`
}

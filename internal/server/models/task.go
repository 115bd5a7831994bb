package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted values in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task belongs to exactly one user. DueDate carries a calendar date only,
// stored at midnight UTC.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	Completed   bool
	Priority    *Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a listing. Nil fields impose no constraint; set fields
// are combined with AND.
type TaskFilter struct {
	Search    *string
	Completed *bool
	Priority  *Priority
}

package task

import "strings"

// Status is the task lifecycle state. Tasks start pending and move to
// done or canceled via explicit updates; there is no way back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

// Priority is an optional task attribute; empty means unset.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = ""
)

type Task struct {
	ID        int64
	OwnerID   int64
	Text      string
	Status    Status
	CreatedOn string // YYYY-MM-DD
	Priority  Priority
	DueAt     string // YYYY-MM-DD HH:MM, empty for no deadline
}

// ValidText reports whether s is acceptable as task text.
func ValidText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ParsePriority maps a priority name to a Priority, false if unknown.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), true
	}
	return PriorityNone, false
}

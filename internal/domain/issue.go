package domain

import (
	"strings"
	"time"
)

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusNew        IssueStatus = "NEW"
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusSolved     IssueStatus = "SOLVED"
)

// Issue is the aggregate for customer support tickets.
type Issue struct {
	ID              string
	AuthUserID      string
	AuthUserAgentID *string
	Subject         string
	Description     string
	Status          IssueStatus
	CreatedAt       time.Time
	ClosedAt        *time.Time
	ChannelPlanID   *string
}

// Radicado returns the human-facing ticket reference, the trailing
// segment of the issue UUID.
func (i *Issue) Radicado() string {
	parts := strings.Split(i.ID, "-")
	return parts[len(parts)-1]
}

// Assignable reports whether the issue can still be handed to an agent.
func (i *Issue) Assignable() bool {
	return CanTransition(i.Status, IssueStatusInProgress)
}

// Lifecycle moves strictly forward: NEW -> OPEN -> IN_PROGRESS -> SOLVED.
var allowedTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusNew:        {IssueStatusOpen, IssueStatusInProgress},
	IssueStatusOpen:       {IssueStatusInProgress},
	IssueStatusInProgress: {IssueStatusSolved},
	IssueStatusSolved:     {},
}

// CanTransition reports whether moving from current to next is allowed.
// SOLVED is terminal and no status may move backward.
func CanTransition(current, next IssueStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AssignableStatuses lists the states an agent may take an issue from,
// derived from the transition table.
func AssignableStatuses() []IssueStatus {
	var result []IssueStatus
	for _, status := range []IssueStatus{IssueStatusNew, IssueStatusOpen, IssueStatusInProgress, IssueStatusSolved} {
		if CanTransition(status, IssueStatusInProgress) {
			result = append(result, status)
		}
	}
	return result
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusNew, IssueStatusOpen, IssueStatusInProgress, IssueStatusSolved:
		return true
	}
	return false
}

// IncidentTypeCount is one row of the top-subjects aggregate.
type IncidentTypeCount struct {
	Subject string
	Count   int64
}

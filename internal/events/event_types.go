package events

import (
	"time"

	"github.com/abcall/issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated  EventType = "issue_created"
	EventIssueAssigned EventType = "issue_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	AuthUserID    string             `json:"auth_user_id"`
	Subject       string             `json:"subject"`
	Status        domain.IssueStatus `json:"status"`
	HasAttachment bool               `json:"has_attachment"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	AuthUserAgentID string `json:"auth_user_agent_id"`
}

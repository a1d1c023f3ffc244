package domain

import "time"

// IssueTrace is an append-only audit record of a state-changing action
// on an issue. ChannelPlanID is copied from the parent issue at write time.
type IssueTrace struct {
	ID              string
	IssueID         string
	AuthUserID      *string
	AuthUserAgentID *string
	Scope           string
	CreatedAt       time.Time
	ChannelPlanID   *string
}

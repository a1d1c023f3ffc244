package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		current IssueStatus
		next    IssueStatus
		want    bool
	}{
		{"new to open", IssueStatusNew, IssueStatusOpen, true},
		{"new to in progress", IssueStatusNew, IssueStatusInProgress, true},
		{"open to in progress", IssueStatusOpen, IssueStatusInProgress, true},
		{"in progress to solved", IssueStatusInProgress, IssueStatusSolved, true},
		{"new to solved skips states", IssueStatusNew, IssueStatusSolved, false},
		{"open to new moves backward", IssueStatusOpen, IssueStatusNew, false},
		{"in progress to open moves backward", IssueStatusInProgress, IssueStatusOpen, false},
		{"solved is terminal", IssueStatusSolved, IssueStatusInProgress, false},
		{"solved to solved", IssueStatusSolved, IssueStatusSolved, false},
		{"unknown status", IssueStatus("ARCHIVED"), IssueStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.current, tt.next))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []IssueStatus{IssueStatusNew, IssueStatusOpen, IssueStatusInProgress, IssueStatusSolved} {
		assert.True(t, ValidStatus(status), string(status))
	}
	assert.False(t, ValidStatus(IssueStatus("CLOSED")))
	assert.False(t, ValidStatus(IssueStatus("")))
}

func TestRadicado(t *testing.T) {
	issue := &Issue{ID: "e3a54f43-3e8d-4c16-b340-9aba07dfb1ec"}
	assert.Equal(t, "9aba07dfb1ec", issue.Radicado())
}

func TestAssignableStatuses(t *testing.T) {
	assert.Equal(t, []IssueStatus{IssueStatusNew, IssueStatusOpen}, AssignableStatuses())
}

func TestAssignable(t *testing.T) {
	assert.True(t, (&Issue{Status: IssueStatusNew}).Assignable())
	assert.True(t, (&Issue{Status: IssueStatusOpen}).Assignable())
	assert.False(t, (&Issue{Status: IssueStatusInProgress}).Assignable())
	assert.False(t, (&Issue{Status: IssueStatusSolved}).Assignable())
}

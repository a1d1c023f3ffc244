package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcall/issue-service/internal/domain"
	apperrors "github.com/abcall/issue-service/pkg/util"
)

func strPtr(s string) *string { return &s }

func statusPtr(s domain.IssueStatus) *domain.IssueStatus { return &s }

func TestIssueFilterWhereClause(t *testing.T) {
	createdFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	closedTo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    IssueFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter matches everything",
			filter:    IssueFilter{},
			wantWhere: "1=1",
			wantArgs:  []any{},
		},
		{
			name:      "auth user only",
			filter:    IssueFilter{AuthUserID: strPtr("user-1")},
			wantWhere: "1=1 AND auth_user_id=$1",
			wantArgs:  []any{"user-1"},
		},
		{
			name:      "status only",
			filter:    IssueFilter{Status: statusPtr(domain.IssueStatusSolved)},
			wantWhere: "1=1 AND status=$1",
			wantArgs:  []any{domain.IssueStatusSolved},
		},
		{
			name:      "channel plan only",
			filter:    IssueFilter{ChannelPlanID: strPtr("plan-9")},
			wantWhere: "1=1 AND channel_plan_id=$1",
			wantArgs:  []any{"plan-9"},
		},
		{
			name:      "created window only",
			filter:    IssueFilter{CreatedFrom: &createdFrom},
			wantWhere: "1=1 AND created_at >= $1",
			wantArgs:  []any{createdFrom},
		},
		{
			name:      "closed window only",
			filter:    IssueFilter{ClosedTo: &closedTo},
			wantWhere: "1=1 AND closed_at <= $1",
			wantArgs:  []any{closedTo},
		},
		{
			name: "all fields renumber placeholders in order",
			filter: IssueFilter{
				AuthUserID:    strPtr("user-1"),
				Status:        statusPtr(domain.IssueStatusNew),
				ChannelPlanID: strPtr("plan-9"),
				CreatedFrom:   &createdFrom,
				ClosedTo:      &closedTo,
			},
			wantWhere: "1=1 AND auth_user_id=$1 AND status=$2 AND channel_plan_id=$3 AND created_at >= $4 AND closed_at <= $5",
			wantArgs:  []any{"user-1", domain.IssueStatusNew, "plan-9", createdFrom, closedTo},
		},
		{
			name: "sparse fields skip no placeholder numbers",
			filter: IssueFilter{
				Status:   statusPtr(domain.IssueStatusOpen),
				ClosedTo: &closedTo,
			},
			wantWhere: "1=1 AND status=$1 AND closed_at <= $2",
			wantArgs:  []any{domain.IssueStatusOpen, closedTo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause()
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStatusPredicate(t *testing.T) {
	predicate, args := statusPredicate(4, domain.AssignableStatuses())
	assert.Equal(t, "status IN ($4,$5)", predicate)
	assert.Equal(t, []any{domain.IssueStatusNew, domain.IssueStatusOpen}, args)

	predicate, args = statusPredicate(1, []domain.IssueStatus{domain.IssueStatusSolved})
	assert.Equal(t, "status IN ($1)", predicate)
	assert.Equal(t, []any{domain.IssueStatusSolved}, args)
}

func TestValidatePaging(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		limit   int
		wantErr bool
	}{
		{name: "first page", page: 1, limit: 10, wantErr: false},
		{name: "deep page", page: 40, limit: 1, wantErr: false},
		{name: "zero limit", page: 1, limit: 0, wantErr: true},
		{name: "negative limit", page: 1, limit: -5, wantErr: true},
		{name: "zero page", page: 0, limit: 10, wantErr: true},
		{name: "negative page", page: -1, limit: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePaging(tt.page, tt.limit)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, 400, domainErr.HTTPStatus)
		})
	}
}

func TestPageQueries(t *testing.T) {
	countQuery, selectQuery := pageQueries("auth_user_id=$1", 3, 10)

	assert.Equal(t, `SELECT COUNT(*) FROM issues WHERE auth_user_id=$1`, countQuery)
	assert.Contains(t, selectQuery, "WHERE auth_user_id=$1")
	assert.Contains(t, selectQuery, "ORDER BY created_at DESC")
	assert.Contains(t, selectQuery, "OFFSET 20 LIMIT 10")

	_, firstPage := pageQueries("1=1", 1, 25)
	assert.Contains(t, firstPage, "OFFSET 0 LIMIT 25")
}

package dto

import (
	"time"

	"github.com/abcall/issue-service/internal/domain"
)

// CreateIssueRequest payload for POST /issue/post.
type CreateIssueRequest struct {
	AuthUserID      string  `json:"auth_user_id" form:"auth_user_id" validate:"required"`
	AuthUserAgentID *string `json:"auth_user_agent_id" form:"auth_user_agent_id"`
	Subject         string  `json:"subject" form:"subject" validate:"required"`
	Description     string  `json:"description" form:"description" validate:"required"`
	ChannelPlanID   *string `json:"channel_plan_id" form:"channel_plan_id"`
}

// AssignIssueRequest payload for POST /issue/assignIssue.
type AssignIssueRequest struct {
	AuthUserAgentID string `json:"auth_user_agent_id" validate:"required"`
}

// IssueResponse is the full issue representation.
type IssueResponse struct {
	ID              string  `json:"id"`
	AuthUserID      string  `json:"auth_user_id"`
	AuthUserAgentID *string `json:"auth_user_agent_id,omitempty"`
	Subject         string  `json:"subject"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	ClosedAt        *string `json:"closed_at,omitempty"`
	ChannelPlanID   *string `json:"channel_plan_id,omitempty"`
}

// IssueDetailResponse is the projection served by get_issue_by_id.
type IssueDetailResponse struct {
	ID          string  `json:"id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	ClosedAt    *string `json:"closed_at,omitempty"`
}

// DashboardIssueResponse is the projection served by getIssuesDasboard.
type DashboardIssueResponse struct {
	Status        string  `json:"status"`
	ChannelPlanID *string `json:"channel_plan_id"`
	CreatedAt     string  `json:"created_at"`
}

// IssuePageResponse is one page of issues.
type IssuePageResponse struct {
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
	Data       []IssueResponse `json:"data"`
}

// IncidentTypeResponse is one row of the top-subjects aggregate.
type IncidentTypeResponse struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

// AnswerResponse wraps a generative-AI answer.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// MessageResponse carries a fixed human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// PredictedDataResponse carries placeholder chart series. The values are
// random integers, not real predictions.
type PredictedDataResponse struct {
	RealDataByDay          []int `json:"realDatabyDay"`
	PredictedDataByDay     []int `json:"predictedDatabyDay"`
	RealDataIssuesType     []int `json:"realDataIssuesType"`
	PredictedDataIssueType []int `json:"predictedDataIssuesType"`
	IssueQuantity          []int `json:"issueQuantity"`
}

// FromIssue maps a domain issue to its full representation.
func FromIssue(issue *domain.Issue) IssueResponse {
	resp := IssueResponse{
		ID:              issue.ID,
		AuthUserID:      issue.AuthUserID,
		AuthUserAgentID: issue.AuthUserAgentID,
		Subject:         issue.Subject,
		Description:     issue.Description,
		Status:          string(issue.Status),
		CreatedAt:       issue.CreatedAt.Format(time.RFC3339),
		ChannelPlanID:   issue.ChannelPlanID,
	}
	if issue.ClosedAt != nil {
		closed := issue.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}

// FromIssues maps a slice of domain issues.
func FromIssues(issues []domain.Issue) []IssueResponse {
	result := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		result = append(result, FromIssue(&issues[i]))
	}
	return result
}

// FromIssuePage maps a domain page.
func FromIssuePage(page *domain.IssuePage) IssuePageResponse {
	return IssuePageResponse{
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		Data:       FromIssues(page.Data),
	}
}

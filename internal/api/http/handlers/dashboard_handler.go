package handlers

import (
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abcall/issue-service/internal/api/dto"
	"github.com/abcall/issue-service/internal/domain"
	"github.com/abcall/issue-service/internal/service"
	apperrors "github.com/abcall/issue-service/pkg/util"
)

// DashboardHandler serves the aggregate/reporting actions of the /issue surface.
type DashboardHandler struct {
	service *service.IssueService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(issueService *service.IssueService) *DashboardHandler {
	return &DashboardHandler{service: issueService}
}

// IssuesDashboard handles GET /issue/getIssuesDasboard. Every filter is
// optional; results are projected to status/channel_plan_id/created_at.
func (h *DashboardHandler) IssuesDashboard(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")

	filter := service.IssueDashboardFilter{}
	if raw := c.Query("status"); raw != "" {
		status := domain.IssueStatus(raw)
		if !domain.ValidStatus(status) {
			return apperrors.NewValidationError("unknown status")
		}
		filter.Status = &status
	}
	if raw := c.Query("channel_plan_id"); raw != "" {
		filter.ChannelPlanID = &raw
	}
	if t, err := parseTimeQuery(c.Query("created_at")); err != nil {
		return err
	} else if t != nil {
		filter.CreatedAt = t
	}
	if t, err := parseTimeQuery(c.Query("closed_at")); err != nil {
		return err
	} else if t != nil {
		filter.ClosedAt = t
	}

	issues, err := h.service.ListIssuesFiltered(c.UserContext(), customerID, filter)
	if err != nil {
		return failWith(err, "Something went wrong trying to get the issue dashboard")
	}

	result := make([]dto.DashboardIssueResponse, 0, len(issues))
	for i := range issues {
		full := dto.FromIssue(&issues[i])
		result = append(result, dto.DashboardIssueResponse{
			Status:        full.Status,
			ChannelPlanID: full.ChannelPlanID,
			CreatedAt:     full.CreatedAt,
		})
	}
	return c.JSON(result)
}

// OpenIssues handles GET /issue/getOpenIssues?page&limit.
func (h *DashboardHandler) OpenIssues(c *fiber.Ctx) error {
	page, err := parsePositiveInt(c.Query("page"), 1, "page")
	if err != nil {
		return err
	}
	limit, err := parsePositiveInt(c.Query("limit"), 10, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.GetOpenIssues(c.UserContext(), page, limit)
	if err != nil {
		return failWith(err, "Something went wrong trying to get the open issues")
	}
	return c.JSON(dto.FromIssuePage(result))
}

// TopSevenIssues handles GET /issue/getTopSevenIssues.
func (h *DashboardHandler) TopSevenIssues(c *fiber.Ctx) error {
	result, err := h.service.TopIncidentTypes(c.UserContext())
	if err != nil {
		return failWith(err, "Something went wrong trying to get the top issues")
	}

	response := make([]dto.IncidentTypeResponse, 0, len(result))
	for _, entry := range result {
		response = append(response, dto.IncidentTypeResponse{
			Subject: entry.Subject,
			Count:   entry.Count,
		})
	}
	return c.JSON(response)
}

// PredictedData handles GET /issue/getPredictedData. The series are
// random placeholders for the dashboard charts, not real forecasts.
func (h *DashboardHandler) PredictedData(c *fiber.Ctx) error {
	return c.JSON(dto.PredictedDataResponse{
		RealDataByDay:          randomSeries(7),
		PredictedDataByDay:     randomSeries(7),
		RealDataIssuesType:     randomSeries(7),
		PredictedDataIssueType: randomSeries(7),
		IssueQuantity:          randomSeries(7),
	})
}

func randomSeries(n int) []int {
	series := make([]int, n)
	for i := range series {
		series[i] = 20 + rand.Intn(81)
	}
	return series
}

func parseTimeQuery(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("invalid date value")
}

package handlers

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/abcall/issue-service/internal/api/dto"
	"github.com/abcall/issue-service/internal/config"
	"github.com/abcall/issue-service/internal/service"
	apperrors "github.com/abcall/issue-service/pkg/util"
)

// IssuesHandler serves the /issue and /issues surfaces. Requests carry
// the operation in an action path segment; unknown actions answer 404.
type IssuesHandler struct {
	service   *service.IssueService
	dashboard *DashboardHandler
	validate  *validator.Validate
	upload    config.UploadConfig
	logger    *zap.Logger
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService, dashboard *DashboardHandler, upload config.UploadConfig, logger *zap.Logger) *IssuesHandler {
	return &IssuesHandler{
		service:   issueService,
		dashboard: dashboard,
		validate:  validator.New(),
		upload:    upload,
		logger:    logger,
	}
}

// HandlePost dispatches POST /issue/:action.
func (h *IssuesHandler) HandlePost(c *fiber.Ctx) error {
	switch c.Params("action") {
	case "post":
		return h.createIssue(c)
	case "assignIssue":
		return h.assignIssue(c)
	default:
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "Action not found"})
	}
}

// HandleGet dispatches GET /issue/:action.
func (h *IssuesHandler) HandleGet(c *fiber.Ctx) error {
	switch c.Params("action") {
	case "getIssuesByCustomer":
		return h.issuesByCustomer(c)
	case "getIssuesDasboard":
		return h.dashboard.IssuesDashboard(c)
	case "get_issue_by_id":
		return h.issueDetail(c)
	case "getIAResponse":
		return h.assistantAnswer(c)
	case "getAllIssues":
		return h.allIssues(c)
	case "getOpenIssues":
		return h.dashboard.OpenIssues(c)
	case "getTopSevenIssues":
		return h.dashboard.TopSevenIssues(c)
	case "getPredictedData":
		return h.dashboard.PredictedData(c)
	default:
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "Action not found"})
	}
}

// createIssue handles POST /issue/post, accepting JSON or multipart
// form data with an optional file.
func (h *IssuesHandler) createIssue(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("auth_user_id, subject and description are required")
	}

	filePath, err := h.saveUploadedFile(c)
	if err != nil {
		return failWith(err, "Error creating issue")
	}

	issue, err := h.service.CreateIssue(c.UserContext(), service.IssueCreateInput{
		AuthUserID:      req.AuthUserID,
		AuthUserAgentID: req.AuthUserAgentID,
		Subject:         req.Subject,
		Description:     req.Description,
		FilePath:        filePath,
		ChannelPlanID:   req.ChannelPlanID,
	})
	if err != nil {
		return failWith(err, "Error creating issue")
	}

	h.logger.Info("issue created", zap.String("issue_id", issue.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Issue created successfully with ID " + issue.Radicado(),
	})
}

// assignIssue handles POST /issue/assignIssue?issue_id=<uuid>.
func (h *IssuesHandler) assignIssue(c *fiber.Ctx) error {
	issueID := c.Query("issue_id")

	var req dto.AssignIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	message, err := h.service.AssignIssue(c.UserContext(), issueID, req.AuthUserAgentID)
	if err != nil {
		return failWith(err, "Error assigning issue")
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

func (h *IssuesHandler) issuesByCustomer(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return apperrors.NewValidationError("year must be an integer")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return apperrors.NewValidationError("month must be an integer")
	}

	issues, err := h.service.ListIssuesPeriod(c.UserContext(), customerID, year, month)
	if err != nil {
		return failWith(err, "Something went wrong trying to get the issue list")
	}
	return c.JSON(dto.FromIssues(issues))
}

func (h *IssuesHandler) issueDetail(c *fiber.Ctx) error {
	issue, err := h.service.GetIssueByID(c.UserContext(), c.Query("issue_id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "Issue not found"})
		}
		return failWith(err, "Something went wrong trying to get the issue detail")
	}

	full := dto.FromIssue(issue)
	return c.JSON(dto.IssueDetailResponse{
		ID:          full.ID,
		Subject:     full.Subject,
		Description: full.Description,
		Status:      full.Status,
		CreatedAt:   full.CreatedAt,
		ClosedAt:    full.ClosedAt,
	})
}

func (h *IssuesHandler) assistantAnswer(c *fiber.Ctx) error {
	answer, err := h.service.AskAssistant(c.UserContext(), c.Query("question"))
	if err != nil {
		return failWith(err, "Something went wrong asking the assistant")
	}
	return c.JSON(dto.AnswerResponse{Answer: answer})
}

func (h *IssuesHandler) allIssues(c *fiber.Ctx) error {
	issues, err := h.service.GetAllIssues(c.UserContext())
	if err != nil {
		return failWith(err, "Something went wrong trying to get all issues")
	}
	return c.JSON(dto.FromIssues(issues))
}

// FindByUser handles GET /issues/find/:user_id?page&limit.
func (h *IssuesHandler) FindByUser(c *fiber.Ctx) error {
	page, err := parsePositiveInt(c.Query("page"), 1, "page")
	if err != nil {
		return err
	}
	limit, err := parsePositiveInt(c.Query("limit"), 10, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.FindIssues(c.UserContext(), c.Params("user_id"), page, limit)
	if err != nil {
		return failWith(err, "Something went wrong trying to get the issue list")
	}
	return c.JSON(dto.FromIssuePage(result))
}

// saveUploadedFile persists the optional multipart file under the
// configured upload directory and returns its path, or "" when the
// request carries no file.
func (h *IssuesHandler) saveUploadedFile(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		// no file part in the request
		return "", nil
	}
	if h.upload.MaxSizeBytes > 0 && file.Size > h.upload.MaxSizeBytes {
		return "", apperrors.NewValidationError("file exceeds the allowed size")
	}

	if err := os.MkdirAll(h.upload.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.upload.Dir, filepath.Base(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}

	h.logger.Info("file uploaded", zap.String("path", path))
	return path, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/abcall/issue-service/internal/assistant"
	"github.com/abcall/issue-service/internal/authclient"
	"github.com/abcall/issue-service/internal/domain"
	"github.com/abcall/issue-service/internal/events"
	"github.com/abcall/issue-service/internal/persistence"
	"github.com/abcall/issue-service/internal/repository"
	apperrors "github.com/abcall/issue-service/pkg/util"
)

// AssignConfirmation is the fixed message returned after a successful assignment.
const AssignConfirmation = "Issue assigned successfully"

const assignTraceScope = "assignIssue - status: IN_PROGRESS"

const (
	topIncidentTypesCacheKey = "dashboard:top_incident_types"
	topIncidentTypesCacheTTL = time.Minute
)

// IssueService coordinates issue workflows.
type IssueService struct {
	issues     repository.IssueRepository
	auth       authclient.Client
	assistant  assistant.Client
	dispatcher events.Dispatcher
	cache      *persistence.Redis
	logger     *zap.Logger
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	AuthClient authclient.Client
	Assistant  assistant.Client
	Dispatcher events.Dispatcher
	Cache      *persistence.Redis
	Logger     *zap.Logger
}

// IssueCreateInput describes issue creation payload.
type IssueCreateInput struct {
	AuthUserID      string
	AuthUserAgentID *string
	Subject         string
	Description     string
	FilePath        string
	ChannelPlanID   *string
}

// IssueDashboardFilter describes the optional dashboard filters.
type IssueDashboardFilter struct {
	Status        *domain.IssueStatus
	ChannelPlanID *string
	CreatedAt     *time.Time
	ClosedAt      *time.Time
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		auth:       deps.AuthClient,
		assistant:  deps.Assistant,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// CreateIssue validates input, assigns identity and timestamps, and
// persists the issue together with its optional attachment.
func (s *IssueService) CreateIssue(ctx context.Context, input IssueCreateInput) (*domain.Issue, error) {
	if strings.TrimSpace(input.AuthUserID) == "" ||
		strings.TrimSpace(input.Subject) == "" ||
		strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("all fields are required to create an issue")
	}

	issue := &domain.Issue{
		ID:              uuid.NewString(),
		AuthUserID:      input.AuthUserID,
		AuthUserAgentID: input.AuthUserAgentID,
		Subject:         strings.TrimSpace(input.Subject),
		Description:     strings.TrimSpace(input.Description),
		Status:          domain.IssueStatusNew,
		CreatedAt:       time.Now().UTC(),
		ChannelPlanID:   input.ChannelPlanID,
	}

	var attachment *domain.IssueAttachment
	if input.FilePath != "" {
		attachment = &domain.IssueAttachment{
			ID:       uuid.NewString(),
			IssueID:  issue.ID,
			FilePath: input.FilePath,
		}
	}

	if err := s.issues.Create(ctx, issue, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			AuthUserID:    issue.AuthUserID,
			Subject:       issue.Subject,
			Status:        issue.Status,
			HasAttachment: attachment != nil,
		},
	})
	return issue, nil
}

// FindIssues returns one page of the user's issues, newest first.
func (s *IssueService) FindIssues(ctx context.Context, userID string, page, limit int) (*domain.IssuePage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	result, err := s.issues.Find(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// GetIssueByID fetches a single issue.
func (s *IssueService) GetIssueByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue")
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// ListIssuesPeriod returns a customer's SOLVED issues for a calendar
// month, aggregated across all of the customer's user accounts. A nil
// slice (not an empty one) signals that the customer has no accounts.
func (s *IssueService) ListIssuesPeriod(ctx context.Context, customerID string, year, month int) ([]domain.Issue, error) {
	accounts, err := s.auth.UsersByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	var issues []domain.Issue
	for _, account := range accounts {
		batch, err := s.issues.ListPeriod(ctx, account.AuthUserID, year, month)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		issues = append(issues, batch...)
	}
	return issues, nil
}

// ListIssuesFiltered applies the optional dashboard filters across all
// of the customer's user accounts. Nil result means no accounts resolved.
func (s *IssueService) ListIssuesFiltered(ctx context.Context, customerID string, filter IssueDashboardFilter) ([]domain.Issue, error) {
	accounts, err := s.auth.UsersByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	var issues []domain.Issue
	for _, account := range accounts {
		userID := account.AuthUserID
		batch, err := s.issues.ListFiltered(ctx, repository.IssueFilter{
			AuthUserID:    &userID,
			Status:        filter.Status,
			ChannelPlanID: filter.ChannelPlanID,
			CreatedFrom:   filter.CreatedAt,
			ClosedTo:      filter.ClosedAt,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		issues = append(issues, batch...)
	}
	return issues, nil
}

// AssignIssue hands the issue to an agent, records the assignment trace
// and returns a fixed confirmation message.
func (s *IssueService) AssignIssue(ctx context.Context, issueID, agentID string) (string, error) {
	if strings.TrimSpace(issueID) == "" || strings.TrimSpace(agentID) == "" {
		return "", apperrors.NewValidationError("issue ID and auth user agent ID are required")
	}

	if err := s.issues.Assign(ctx, issueID, agentID); err != nil {
		return "", apperrors.MapError(err)
	}

	trace := &domain.IssueTrace{
		ID:              uuid.NewString(),
		IssueID:         issueID,
		AuthUserAgentID: &agentID,
		Scope:           assignTraceScope,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.issues.CreateTrace(ctx, trace); err != nil {
		return "", apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issueID,
		Payload: events.IssueAssignedPayload{
			AuthUserAgentID: agentID,
		},
	})
	return AssignConfirmation, nil
}

// GetOpenIssues pages through unresolved issues.
func (s *IssueService) GetOpenIssues(ctx context.Context, page, limit int) (*domain.IssuePage, error) {
	result, err := s.issues.OpenIssues(ctx, page, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// GetAllIssues returns every issue, newest first.
func (s *IssueService) GetAllIssues(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.issues.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// TopIncidentTypes returns the 7 most reported subjects, served from a
// short-lived redis cache when available.
func (s *IssueService) TopIncidentTypes(ctx context.Context) ([]domain.IncidentTypeCount, error) {
	if cached, ok := s.cachedTopIncidentTypes(ctx); ok {
		return cached, nil
	}

	result, err := s.issues.TopIncidentTypes(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.storeTopIncidentTypes(ctx, result)
	return result, nil
}

// AskAssistant forwards the question to the generative-AI collaborator
// and returns its answer verbatim.
func (s *IssueService) AskAssistant(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperrors.NewValidationError("question is required")
	}
	answer, err := s.assistant.Ask(ctx, question)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return answer, nil
}

func (s *IssueService) cachedTopIncidentTypes(ctx context.Context) ([]domain.IncidentTypeCount, bool) {
	var cached []domain.IncidentTypeCount
	hit, err := s.cache.FetchJSON(ctx, topIncidentTypesCacheKey, &cached)
	if err != nil {
		s.logger.Warn("top incident types cache read failed", zap.Error(err))
		return nil, false
	}
	return cached, hit
}

func (s *IssueService) storeTopIncidentTypes(ctx context.Context, result []domain.IncidentTypeCount) {
	if len(result) == 0 {
		return
	}
	if err := s.cache.CacheJSON(ctx, topIncidentTypesCacheKey, result, topIncidentTypesCacheTTL); err != nil {
		s.logger.Warn("top incident types cache write failed", zap.Error(err))
	}
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

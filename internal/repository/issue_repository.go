package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcall/issue-service/internal/domain"
	apperrors "github.com/abcall/issue-service/pkg/util"
)

const issueColumns = `id, auth_user_id, auth_user_agent_id, subject, description, status, created_at, closed_at, channel_plan_id`

// IssueFilter captures dashboard search parameters. Every field is
// optional and filters combine conjunctively.
type IssueFilter struct {
	AuthUserID    *string
	Status        *domain.IssueStatus
	ChannelPlanID *string
	CreatedFrom   *time.Time
	ClosedTo      *time.Time
}

// whereClause renders the filter as a conjunctive WHERE body with $n
// placeholders, numbered in field declaration order.
func (f IssueFilter) whereClause() (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if f.AuthUserID != nil {
		args = append(args, *f.AuthUserID)
		clauses = append(clauses, fmt.Sprintf("auth_user_id=$%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.ChannelPlanID != nil {
		args = append(args, *f.ChannelPlanID)
		clauses = append(clauses, fmt.Sprintf("channel_plan_id=$%d", len(args)))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.ClosedTo != nil {
		args = append(args, *f.ClosedTo)
		clauses = append(clauses, fmt.Sprintf("closed_at <= $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// IssueRepository encapsulates issue, attachment and trace persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue, attachment *domain.IssueAttachment) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListPeriod(ctx context.Context, userID string, year, month int) ([]domain.Issue, error)
	ListFiltered(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	ListAll(ctx context.Context) ([]domain.Issue, error)
	Find(ctx context.Context, userID string, page, limit int) (*domain.IssuePage, error)
	OpenIssues(ctx context.Context, page, limit int) (*domain.IssuePage, error)
	Assign(ctx context.Context, issueID, agentID string) error
	CreateTrace(ctx context.Context, trace *domain.IssueTrace) error
	TopIncidentTypes(ctx context.Context) ([]domain.IncidentTypeCount, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

// Create inserts the issue and, when supplied, its attachment inside one
// transaction so a failed attachment write never leaves an orphan issue.
func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue, attachment *domain.IssueAttachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertIssue = `
        INSERT INTO issues (id, auth_user_id, auth_user_agent_id, subject, description, status, created_at, channel_plan_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := tx.Exec(ctx, insertIssue,
		issue.ID,
		issue.AuthUserID,
		issue.AuthUserAgentID,
		issue.Subject,
		issue.Description,
		issue.Status,
		issue.CreatedAt,
		issue.ChannelPlanID,
	); err != nil {
		return err
	}

	if attachment != nil {
		const insertAttachment = `
            INSERT INTO issue_attachments (id, issue_id, file_path)
            VALUES ($1,$2,$3)`
		if _, err := tx.Exec(ctx, insertAttachment,
			attachment.ID,
			attachment.IssueID,
			attachment.FilePath,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.AuthUserID,
		&issue.AuthUserAgentID,
		&issue.Subject,
		&issue.Description,
		&issue.Status,
		&issue.CreatedAt,
		&issue.ClosedAt,
		&issue.ChannelPlanID,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListPeriod returns the user's SOLVED issues created in the given calendar month.
func (r *issueRepository) ListPeriod(ctx context.Context, userID string, year, month int) ([]domain.Issue, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM issues
        WHERE auth_user_id=$1
          AND status=$2
          AND EXTRACT(YEAR FROM created_at)=$3
          AND EXTRACT(MONTH FROM created_at)=$4`, issueColumns)
	rows, err := r.pool.Query(ctx, query, userID, domain.IssueStatusSolved, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListFiltered(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	where, args := filter.whereClause()
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC`,
		issueColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListAll(ctx context.Context) ([]domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues ORDER BY created_at DESC`, issueColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) Find(ctx context.Context, userID string, page, limit int) (*domain.IssuePage, error) {
	return r.paginate(ctx, page, limit, "auth_user_id=$1", userID)
}

// OpenIssues pages through issues an agent can still take, which is
// what the dashboard treats as open.
func (r *issueRepository) OpenIssues(ctx context.Context, page, limit int) (*domain.IssuePage, error) {
	predicate, args := statusPredicate(1, domain.AssignableStatuses())
	return r.paginate(ctx, page, limit, predicate, args...)
}

// statusPredicate renders "status IN (...)" with placeholders numbered
// from start.
func statusPredicate(start int, statuses []domain.IssueStatus) (string, []any) {
	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = status
	}
	return fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")), args
}

// validatePaging rejects non-positive paging parameters before any
// query is issued.
func validatePaging(page, limit int) error {
	if limit <= 0 {
		return apperrors.NewValidationError("limit must be greater than zero")
	}
	if page <= 0 {
		return apperrors.NewValidationError("page must be greater than zero")
	}
	return nil
}

// pageQueries renders the COUNT and SELECT statements for one page.
// Both share the same WHERE body and arguments.
func pageQueries(where string, page, limit int) (countQuery, selectQuery string) {
	countQuery = fmt.Sprintf(`SELECT COUNT(*) FROM issues WHERE %s`, where)
	selectQuery = fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC OFFSET %d LIMIT %d`,
		issueColumns, where, (page-1)*limit, limit)
	return countQuery, selectQuery
}

func (r *issueRepository) paginate(ctx context.Context, page, limit int, where string, args ...any) (*domain.IssuePage, error) {
	if err := validatePaging(page, limit); err != nil {
		return nil, err
	}

	countQuery, selectQuery := pageQueries(where, page, limit)
	var totalItems int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues, err := scanIssues(rows)
	if err != nil {
		return nil, err
	}

	totalPages, hasNext := domain.PageMeta(totalItems, page, limit)
	return &domain.IssuePage{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    hasNext,
		Data:       issues,
	}, nil
}

// Assign hands the issue to an agent and advances it to IN_PROGRESS.
// The status predicate makes the update a compare-and-swap: a concurrent
// assignment loses with a conflict instead of silently overwriting.
func (r *issueRepository) Assign(ctx context.Context, issueID, agentID string) error {
	predicate, predicateArgs := statusPredicate(4, domain.AssignableStatuses())
	query := fmt.Sprintf(`
        UPDATE issues SET auth_user_agent_id=$2, status=$3
        WHERE id=$1 AND %s`, predicate)

	args := append([]any{issueID, agentID, domain.IssueStatusInProgress}, predicateArgs...)
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("issue")
		}
		return err
	}
	return apperrors.NewConflict("issue already assigned")
}

// CreateTrace appends an audit record, copying channel_plan_id from the
// parent issue. Fails with not-found when the issue does not exist.
func (r *issueRepository) CreateTrace(ctx context.Context, trace *domain.IssueTrace) error {
	issue, err := r.GetByID(ctx, trace.IssueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("issue")
		}
		return err
	}
	trace.ChannelPlanID = issue.ChannelPlanID

	const query = `
        INSERT INTO issue_traces (id, issue_id, auth_user_id, auth_user_agent_id, scope, created_at, channel_plan_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.pool.Exec(ctx, query,
		trace.ID,
		trace.IssueID,
		trace.AuthUserID,
		trace.AuthUserAgentID,
		trace.Scope,
		trace.CreatedAt,
		trace.ChannelPlanID,
	)
	return err
}

// TopIncidentTypes returns the 7 most reported subjects, most frequent first.
func (r *issueRepository) TopIncidentTypes(ctx context.Context) ([]domain.IncidentTypeCount, error) {
	const query = `
        SELECT subject, COUNT(*) AS occurrences
        FROM issues GROUP BY subject
        ORDER BY occurrences DESC LIMIT 7`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IncidentTypeCount
	for rows.Next() {
		var entry domain.IncidentTypeCount
		if err := rows.Scan(&entry.Subject, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.AuthUserID,
			&issue.AuthUserAgentID,
			&issue.Subject,
			&issue.Description,
			&issue.Status,
			&issue.CreatedAt,
			&issue.ClosedAt,
			&issue.ChannelPlanID,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}

package domain

// IssueAttachment holds file metadata linked to an issue. At most one
// attachment is written per issue, in the same transaction as the issue.
type IssueAttachment struct {
	ID       string
	IssueID  string
	FilePath string
}

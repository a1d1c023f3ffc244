package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/abcall/issue-service/pkg/util"
)

// failWith keeps client errors (4xx) intact and replaces the message of
// anything else with a fixed endpoint-specific text; internal detail
// never reaches the caller.
func failWith(err error, message string) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus < http.StatusInternalServerError {
		return domainErr
	}
	return apperrors.NewInternalError(message, err)
}

// parsePositiveInt parses a paging parameter. Missing values fall back
// to def; malformed values are a validation error; non-positive values
// pass through so the repository contract can reject them.
func parsePositiveInt(val string, def int, name string) (int, error) {
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer")
	}
	return parsed, nil
}

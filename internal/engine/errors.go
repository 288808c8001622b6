package engine

import "errors"

// ErrorCode identifies one of the expected, user-facing validation
// outcomes. Anything outside this set is an internal error.
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "not_found"
	CodeDuplicateName      ErrorCode = "duplicate_name"
	CodeInvalidGraph       ErrorCode = "invalid_graph"
	CodeInactiveDefinition ErrorCode = "inactive_definition"
	CodeNotActive          ErrorCode = "not_active"
	CodeInvalidTransition  ErrorCode = "invalid_transition"
	CodeCommentRequired    ErrorCode = "comment_required"
	CodeDefinitionInUse    ErrorCode = "definition_in_use"
	CodeInvalidCommand     ErrorCode = "invalid_command"
)

// DomainError is a recoverable rule violation raised at the point of
// detection and mapped to a 4xx response at the HTTP boundary.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func newError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

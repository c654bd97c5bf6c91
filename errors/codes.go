package errors

import (
	"time"

	crdb "github.com/cockroachdb/errors"
)

// Code classifies a domain error so the RPC boundary can translate it into
// a wire Status without inspecting error text.
type Code string

const (
	CodeInvalidParent        Code = "INVALID_PARENT"
	CodeDifferentParent      Code = "DIFFERENT_PARENT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeNoChanges            Code = "NO_CHANGES"
	CodeConstraintFailed     Code = "CONSTRAINT_FAILED"
	CodeDatabaseUpdateFailed Code = "DATABASE_UPDATE_FAILED"
	CodeDatabaseError        Code = "DATABASE_ERROR"
	CodeDatabaseClosed       Code = "DATABASE_CLOSED"
	CodeMissingTenantName    Code = "MISSING_TENANT_NAME"
	CodeMissingUserEmail     Code = "MISSING_USER_EMAIL"
	CodeMissingUserName      Code = "MISSING_USER_NAME"
)

// DomainError carries a Code alongside the wrapped cause, plus a message and
// optional debugging context, for surfacing structured, user-facing error
// context.
type DomainError struct {
	Err       error
	Code      Code
	Message   string
	Context   map[string]interface{}
	Timestamp time.Time
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithCode wraps err in a DomainError carrying the given code and message.
func WithCode(err error, code Code, message string) *DomainError {
	return &DomainError{
		Err:       err,
		Code:      code,
		Message:   message,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// NewCode creates a DomainError with no wrapped cause, for codes raised
// directly by validation rather than surfaced from an underlying failure.
func NewCode(code Code, message string) *DomainError {
	return WithCode(crdb.Newf("%s", message), code, message)
}

// WithContext attaches a debugging context key-value pair.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	e.Context[key] = value
	return e
}

// CodeOf extracts the Code carried by err, walking the Unwrap chain. The
// second return is false if no DomainError is found anywhere in the chain.
func CodeOf(err error) (Code, bool) {
	var de *DomainError
	if As(err, &de) {
		return de.Code, true
	}
	return "", false
}

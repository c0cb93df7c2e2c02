package launch

import "fmt"

// Code classifies a synchronous launch failure.
type Code string

// Error codes returned by Launch.
const (
	CodeMissingPostID     Code = "missing_post_id"
	CodeMissingCredential Code = "missing_credential"
	CodeAlreadyProcessed  Code = "already_processed"
	CodeFetchFailed       Code = "fetch_failed"
	CodeNetworkError      Code = "network_error"
	CodeInvalidFormat     Code = "invalid_format"
	CodeDeployFailed      Code = "deploy_failed"
	CodeInternal          Code = "internal"
)

// Error is a synchronous launch failure with user-facing diagnostics.
type Error struct {
	Code    Code
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, message string, details ...string) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

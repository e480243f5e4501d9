package core

// Error codes for domain errors.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeUserNotFound      = "user_not_found"
	ErrCodePersistenceFailed = "persistence_failed"
)

// CoreError wraps a code and human-readable message. All core errors are
// local-recoverable: they terminate the single event being handled and are
// reported back to its caller.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

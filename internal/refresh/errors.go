package refresh

// Code classifies a refresh failure per spec §4.6.4's retry table.
type Code string

const (
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeStorageError       Code = "STORAGE_ERROR"
	CodeRefreshInProgress  Code = "REFRESH_IN_PROGRESS"
	CodeSessionRevoked     Code = "SESSION_REVOKED"
	CodeInvalidResponse    Code = "INVALID_RESPONSE"
	CodeRefreshNotAvailable Code = "REFRESH_NOT_AVAILABLE"
	CodeUnknown            Code = "UNKNOWN"
)

var retryable = map[Code]bool{
	CodeNetworkError:        true,
	CodeRateLimited:         true,
	CodeStorageError:        true,
	CodeRefreshInProgress:   true,
	CodeSessionRevoked:      false,
	CodeInvalidResponse:     false,
	CodeRefreshNotAvailable: false,
	CodeUnknown:             false,
}

// Error is a classified refresh failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Retryable reports whether refreshWithRetry should attempt again.
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	return retryable[e.Code]
}

var errInProgress = &Error{Code: CodeRefreshInProgress, Message: "a refresh is already in progress"}

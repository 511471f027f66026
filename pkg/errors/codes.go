package errors

type Code string

const (
	CodeUnknown        Code = "UNKNOWN"
	CodeNotFound       Code = "NOT_FOUND"
	CodeForbidden      Code = "FORBIDDEN"
	CodeInvalidPayload Code = "INVALID_PAYLOAD"
	CodeConflict       Code = "CONFLICT"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeUnavailable    Code = "UNAVAILABLE"
)

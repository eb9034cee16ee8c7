package models

// Machine-readable error codes carried in ErrorResponse.Code.
// Clients switch on these, so the values are part of the API contract.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeWrongCredentials    = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrCodeUnknownPlatform     = "UNKNOWN_PLATFORM"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamError       = "UPSTREAM_ERROR"
	ErrCodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

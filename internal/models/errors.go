package models

import "errors"

// Application-wide standard errors
var (
	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Content Generation Errors
	ErrUnknownPlatform     = errors.New("unknown platform tag")
	ErrUpstreamUnavailable = errors.New("ai provider is unreachable")
	ErrUpstreamError       = errors.New("ai provider returned an error")
	ErrUpstreamTimeout     = errors.New("ai provider request timed out")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)

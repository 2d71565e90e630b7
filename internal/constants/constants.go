package constants

import "time"

// Context keys
const (
	ContextKeyUsername = "username"
)

// Authentication
const (
	// AuthPathPrefix marks the public routes that bypass the token gate.
	AuthPathPrefix = "/api/auth/"

	BearerPrefix = "Bearer "

	// TokenTTL is the fixed lifetime of an issued token.
	TokenTTL = time.Hour

	MinPasswordLength = 6
	MaxUsernameLength = 50
)

// Tasks
const (
	// DefaultTaskStatus is assigned when a task is created without a status.
	DefaultTaskStatus = "TO_BE_DONE"

	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Pagination defaults for list endpoints. Pages are zero-indexed.
const (
	DefaultPage      = 0
	DefaultPageSize  = 10
	DefaultSortField = "id"
	DefaultSortDir   = "asc"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

package constants

import "time"

// Context keys set by the access gate
const (
	ContextKeyIdentity = "identity"
	ContextKeyRole     = "role"
)

// Session token
const (
	TokenCookieName = "token"
	TokenLifetime   = 5 * time.Hour
)

// Pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Dashboard routes referenced by notifications
const (
	WorkerHomeRoute = "/dashboard/worker-home"
)

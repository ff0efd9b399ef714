package models

const (
	StatusWaiting   = "WAITING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	// DefaultPageSize is used when a list request carries no size parameter.
	DefaultPageSize = 20

	// MaxPageSize caps list requests regardless of the requested size.
	MaxPageSize = 100

	// RateLimitRequests is the per-actor request budget within RateLimitWindow.
	RateLimitRequests = 30

	// RateLimitWindow is the rate-limit window in seconds.
	RateLimitWindow = 60
)

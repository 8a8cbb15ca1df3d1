package models

import "time"

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds; set when denied

	// Degraded is true when the answer came from the in-memory fallback
	// because the shared store was unavailable.
	Degraded bool
}

// NewIPKey builds the bucket key for a client IP within a scope such as "predict".
func NewIPKey(scope, ip string) string {
	return "ratelimit:" + scope + ":ip:" + ip
}

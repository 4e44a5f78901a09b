package rate

import "errors"

var (
	// ErrRateLimited is returned when an email or IP exceeds the request
	// budget for the current window.
	ErrRateLimited = errors.New("rate limited")

	// ErrRedisUnavailable wraps transport-level Redis failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

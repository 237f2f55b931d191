package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString is returned when the Redis connection
	// URL is malformed.
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned when Redis doesn't become ready within the
	// configured attempts and timeout.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")

	// ErrHealthcheckFailed is returned when the health check ping fails.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)

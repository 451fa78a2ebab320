package errors

import (
	"bytes"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralUnauthorizedError represents a generic unauthorized error.
	GeneralUnauthorizedError ErrorCode = "general_unauthorized_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidCommand is returned when an order command fails validation.
	InvalidCommand ErrorCode = "invalid_command"
	// StorageUnavailable is returned when the order record cannot be persisted.
	StorageUnavailable ErrorCode = "storage_unavailable"
	// OrderNotFound is returned when an order record does not exist for the user.
	OrderNotFound ErrorCode = "order_not_found"
	// CredentialsNotConfigured is returned when a user has no exchange API keys.
	CredentialsNotConfigured ErrorCode = "credentials_not_configured"
	// ExchangeRequestError is returned when the exchange call fails.
	ExchangeRequestError ErrorCode = "exchange_request_error"
	// InvalidToken is returned when a bearer token cannot be verified.
	InvalidToken ErrorCode = "invalid_token"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetNXError represents an error when setting a value in Redis with SetNX.
	RedisSetNXError ErrorCode = "redis_setnx_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisSubscribeError represents an error when subscribing to channels in Redis.
	RedisSubscribeError ErrorCode = "redis_subscribe_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// Validation collects one ErrorDetails per offending field into a BaseError.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether at least one ErrorDetails was collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

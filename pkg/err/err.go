package errprocess

import (
	"errors"
	"fmt"

	"realtime_chat_service/pkg/logger"
)

// Error kinds shared by every service. Handlers map them to HTTP or
// websocket error payloads with errors.Is.
var (
	// ErrValidation input rejected before touching storage
	ErrValidation = errors.New("validation error")
	// ErrNotFound the referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrTransient infrastructure failure, safe to retry
	ErrTransient = errors.New("transient error")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Validationf log and return a validation error
func Validationf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	logger.Log.Error(msg)
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NotFoundf log and return a not-found error
func NotFoundf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	logger.Log.Error(msg)
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Transientf log and return a retryable infrastructure error
func Transientf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	logger.Log.Error(msg)
	return fmt.Errorf("%w: %s", ErrTransient, msg)
}

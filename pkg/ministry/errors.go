package ministry

import (
	"errors"
	"fmt"
	"strings"
)

// Error types
var (
	// ErrNotFound indicates no record matched the requested id
	ErrNotFound = errors.New("record not found")

	// ErrRegistrationNotFound indicates a registration was not found
	ErrRegistrationNotFound = fmt.Errorf("registration %w", ErrNotFound)

	// ErrPostNotFound indicates a blog post was not found
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrEventNotFound indicates an event was not found
	ErrEventNotFound = fmt.Errorf("event %w", ErrNotFound)

	// ErrObjectNotFound indicates a stored file was not found
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidObjectKey indicates a storage key that cannot be addressed
	ErrInvalidObjectKey = errors.New("invalid object key")
)

// ValidationError reports missing or malformed input
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidationError creates a ValidationError for the given fields
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// StorageError represents a failed repository operation
type StorageError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// MediaError represents a failed file operation on the media store
type MediaError struct {
	Op  string
	Key string
	Err error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// ExternalServiceError represents a failed call to the mailing-list provider.
// StatusCode is zero when the provider could not be reached.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// RecordError represents an error related to an operation on one record
type RecordError struct {
	Resource string
	ID       string
	Op       string
	Err      error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s operation %s failed: %v", e.Resource, e.Op, e.Err)
	}
	return fmt.Sprintf("%s operation %s failed for %s: %v", e.Resource, e.Op, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

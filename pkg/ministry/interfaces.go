package ministry

import (
	"context"
	"io"
)

// BlobStore defines the interface for storage backends holding uploaded files
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content. Missing objects report ErrObjectNotFound.
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Collection is the generic persistence contract for one record shape.
type Collection[T any] interface {
	// Insert stores a new document. The caller assigns the ID.
	Insert(ctx context.Context, doc *T) error

	// Find returns the documents matching q, honouring its sort and paging.
	Find(ctx context.Context, q Query) ([]*T, error)

	// Count returns the number of documents matching q's filters.
	Count(ctx context.Context, q Query) (int64, error)

	// FindByID returns ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id string) (*T, error)

	// UpdateByID merges fields into the stored document and returns the
	// result, or ErrNotFound.
	UpdateByID(ctx context.Context, id string, fields Fields) (*T, error)

	// DeleteByID reports whether a document was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Repository groups the collections backing the service
type Repository interface {
	Registrations() Collection[Registration]
	Posts() Collection[Post]
	Events() Collection[Event]

	// Ping checks connectivity with the underlying store
	Ping(ctx context.Context) error

	// Close releases connections held by the repository
	Close(ctx context.Context) error
}

// EventSink receives record lifecycle notifications. Errors are logged by
// the service and never fail the originating operation.
type EventSink interface {
	RegistrationCreated(ctx context.Context, registration *Registration) error
	RegistrationCheckedIn(ctx context.Context, registration *Registration) error

	PostCreated(ctx context.Context, post *Post) error
	PostUpdated(ctx context.Context, post *Post) error
	PostDeleted(ctx context.Context, postID string) error

	EventCreated(ctx context.Context, event *Event) error
	EventDeleted(ctx context.Context, eventID string) error
}

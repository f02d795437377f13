package ministry

import (
	"context"
	"io"
)

// Service defines the main interface for the ministry backend
type Service interface {
	// Registration operations
	Register(ctx context.Context, req CreateRegistrationRequest) (*Registration, error)
	ListRegistrations(ctx context.Context) ([]*Registration, error)
	CheckIn(ctx context.Context, id string) (*Registration, error)

	// Blog post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	ListPostsPage(ctx context.Context, req PageRequest) (*PostPage, error)
	SearchPosts(ctx context.Context, req SearchPostsRequest) ([]*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id string) error

	// Event operations
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
	ListUpcomingEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Uploaded media
	OpenMedia(ctx context.Context, key string) (io.ReadCloser, *ObjectMeta, error)
	MediaURL(key string) string

	// Ping checks the record store is reachable
	Ping(ctx context.Context) error
}

package memory

import (
	"context"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// Repository implements ministry.Repository using in-memory storage
type Repository struct {
	registrations *collection[ministry.Registration]
	posts         *collection[ministry.Post]
	events        *collection[ministry.Event]
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		registrations: newCollection[ministry.Registration]("registrations"),
		posts:         newCollection[ministry.Post]("posts"),
		events:        newCollection[ministry.Event]("events"),
	}
}

func (r *Repository) Registrations() ministry.Collection[ministry.Registration] {
	return r.registrations
}

func (r *Repository) Posts() ministry.Collection[ministry.Post] {
	return r.posts
}

func (r *Repository) Events() ministry.Collection[ministry.Event] {
	return r.events
}

func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	return nil
}

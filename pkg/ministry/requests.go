package ministry

import (
	"io"
	"time"
)

// Upload is a file attached to a create or update request
type Upload struct {
	Reader   io.Reader
	FileName string
}

// present reports whether the upload carries file content
func (u *Upload) present() bool {
	return u != nil && u.Reader != nil
}

// CreateRegistrationRequest contains parameters for registering a person
type CreateRegistrationRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank"`
	Location string `json:"location" validate:"notblank"`
	Church   string `json:"church" validate:"notblank"`
	Phone    string `json:"phone" validate:"notblank"`
}

// CreatePostRequest contains parameters for creating a blog post
type CreatePostRequest struct {
	Title   string  `json:"title" validate:"notblank"`
	Content string  `json:"content" validate:"notblank"`
	Image   *Upload `json:"-"`
}

// UpdatePostRequest contains parameters for a partial post update. Blank
// Title or Content keep the stored value; an Image without a Reader keeps the
// stored file.
type UpdatePostRequest struct {
	ID      string  `json:"id" validate:"required"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *Upload `json:"-"`
}

// PageRequest selects one page of results. Zero values fall back to the
// first page of DefaultPageSize items.
type PageRequest struct {
	Page  int
	Limit int
}

// SearchPostsRequest contains parameters for a title search
type SearchPostsRequest struct {
	Query string
	PageRequest
}

// CreateEventRequest contains parameters for creating an event
type CreateEventRequest struct {
	Title string    `json:"title" validate:"notblank"`
	Date  time.Time `json:"date" validate:"required"`
	Time  string    `json:"time" validate:"notblank"`
	Image *Upload   `json:"-"`
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	return p
}

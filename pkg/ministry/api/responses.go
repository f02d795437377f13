package api

import (
	"time"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// PostResponse is a blog post with its image rendered as a public URL
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventResponse is an event with its image rendered as a public URL
type EventResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostPageResponse is one page of the newest posts
type PostPageResponse struct {
	Blogs []PostResponse `json:"blogs"`
	Total int            `json:"total"`
}

// PostSearchResponse holds title search results
type PostSearchResponse struct {
	Blogs []PostResponse `json:"blogs"`
}

// CheckInResponse wraps the checked-in registration
type CheckInResponse struct {
	User *ministry.Registration `json:"user"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

func toPostResponse(post *ministry.Post, url func(string) string) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Image:     url(post.Image),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func toPostResponses(posts []*ministry.Post, url func(string) string) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p, url))
	}
	return out
}

func toEventResponse(event *ministry.Event, url func(string) string) EventResponse {
	return EventResponse{
		ID:        event.ID,
		Title:     event.Title,
		Date:      event.Date,
		Time:      event.Time,
		Image:     url(event.Image),
		CreatedAt: event.CreatedAt,
	}
}

func toEventResponses(events []*ministry.Event, url func(string) string) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e, url))
	}
	return out
}

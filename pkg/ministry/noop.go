package ministry

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) RegistrationCreated(ctx context.Context, registration *Registration) error {
	return nil
}

func (n *NoopEventSink) RegistrationCheckedIn(ctx context.Context, registration *Registration) error {
	return nil
}

func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error {
	return nil
}

func (n *NoopEventSink) PostUpdated(ctx context.Context, post *Post) error {
	return nil
}

func (n *NoopEventSink) PostDeleted(ctx context.Context, postID string) error {
	return nil
}

func (n *NoopEventSink) EventCreated(ctx context.Context, event *Event) error {
	return nil
}

func (n *NoopEventSink) EventDeleted(ctx context.Context, eventID string) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses slog.Default.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// RegistrationCreated logs the registration
func (l *LoggingEventSink) RegistrationCreated(ctx context.Context, registration *Registration) error {
	l.logger.InfoContext(ctx, "Registration created", "registration_id", registration.ID, "church", registration.Church)
	return nil
}

// RegistrationCheckedIn logs the check-in
func (l *LoggingEventSink) RegistrationCheckedIn(ctx context.Context, registration *Registration) error {
	l.logger.InfoContext(ctx, "Registration checked in", "registration_id", registration.ID)
	return nil
}

// PostCreated logs the post creation event
func (l *LoggingEventSink) PostCreated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "Post created", "post_id", post.ID, "title", post.Title, "has_image", post.Image != "")
	return nil
}

// PostUpdated logs the post update event
func (l *LoggingEventSink) PostUpdated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "Post updated", "post_id", post.ID, "title", post.Title)
	return nil
}

// PostDeleted logs the post deletion event
func (l *LoggingEventSink) PostDeleted(ctx context.Context, postID string) error {
	l.logger.InfoContext(ctx, "Post deleted", "post_id", postID)
	return nil
}

// EventCreated logs the event creation
func (l *LoggingEventSink) EventCreated(ctx context.Context, event *Event) error {
	l.logger.InfoContext(ctx, "Event created", "event_id", event.ID, "title", event.Title, "date", event.Date)
	return nil
}

// EventDeleted logs the event deletion
func (l *LoggingEventSink) EventDeleted(ctx context.Context, eventID string) error {
	l.logger.InfoContext(ctx, "Event deleted", "event_id", eventID)
	return nil
}

package ministry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	media      *MediaStore
	eventSink  EventSink
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithMediaStore sets the media store holding uploaded images
func WithMediaStore(media *MediaStore) Option {
	return func(s *service) {
		s.media = media
	}
}

// WithBlobStore wraps a blob storage backend in a MediaStore
func WithBlobStore(store BlobStore, opts ...MediaOption) Option {
	return func(s *service) {
		s.media = NewMediaStore(store, opts...)
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithClock overrides the time source used for timestamps and the
// upcoming-events cutoff
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		now: time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.media == nil {
		return nil, fmt.Errorf("media store is required")
	}

	return s, nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// Registration operations

func (s *service) Register(ctx context.Context, req CreateRegistrationRequest) (*Registration, error) {
	if err := ValidateStruct(ctx, req); err != nil {
		return nil, err
	}

	registration := &Registration{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Location:  req.Location,
		Church:    req.Church,
		Phone:     req.Phone,
		CheckedIn: false,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repository.Registrations().Insert(ctx, registration); err != nil {
		return nil, &RecordError{Resource: "registration", ID: registration.ID, Op: "create", Err: err}
	}

	s.notify("registration_created", func(sink EventSink) error {
		return sink.RegistrationCreated(ctx, registration)
	})

	return registration, nil
}

func (s *service) ListRegistrations(ctx context.Context) ([]*Registration, error) {
	registrations, err := s.repository.Registrations().Find(ctx, Query{})
	if err != nil {
		return nil, &RecordError{Resource: "registration", Op: "list", Err: err}
	}
	return registrations, nil
}

func (s *service) CheckIn(ctx context.Context, id string) (*Registration, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewValidationError("registration id is required", "id")
	}

	registration, err := s.repository.Registrations().UpdateByID(ctx, id, Fields{
		FieldCheckedIn: true,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, &RecordError{Resource: "registration", ID: id, Op: "check_in", Err: err}
	}

	s.notify("registration_checked_in", func(sink EventSink) error {
		return sink.RegistrationCheckedIn(ctx, registration)
	})

	return registration, nil
}

// Blog post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := ValidateStruct(ctx, req); err != nil {
		return nil, err
	}

	imageKey, err := s.storeUpload(ctx, req.Image)
	if err != nil {
		return nil, &RecordError{Resource: "post", Op: "create", Err: err}
	}

	now := s.now().UTC()
	post := &Post{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		Image:     imageKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.Posts().Insert(ctx, post); err != nil {
		s.warnOrphan(imageKey, err)
		return nil, &RecordError{Resource: "post", ID: post.ID, Op: "create", Err: err}
	}

	s.notify("post_created", func(sink EventSink) error {
		return sink.PostCreated(ctx, post)
	})

	return post, nil
}

func (s *service) ListPosts(ctx context.Context) ([]*Post, error) {
	posts, err := s.repository.Posts().Find(ctx, Query{
		Sort: Sort{Field: FieldCreatedAt, Desc: true},
	})
	if err != nil {
		return nil, &RecordError{Resource: "post", Op: "list", Err: err}
	}
	return posts, nil
}

func (s *service) ListPostsPage(ctx context.Context, req PageRequest) (*PostPage, error) {
	req = req.normalize()

	q := Query{
		Sort:  Sort{Field: FieldCreatedAt, Desc: true},
		Page:  req.Page,
		Limit: req.Limit,
	}

	posts, err := s.repository.Posts().Find(ctx, q)
	if err != nil {
		return nil, &RecordError{Resource: "post", Op: "list_page", Err: err}
	}

	count, err := s.repository.Posts().Count(ctx, q)
	if err != nil {
		return nil, &RecordError{Resource: "post", Op: "count", Err: err}
	}

	return &PostPage{
		Posts:      posts,
		TotalPages: TotalPages(count, req.Limit),
	}, nil
}

func (s *service) SearchPosts(ctx context.Context, req SearchPostsRequest) ([]*Post, error) {
	page := req.PageRequest.normalize()

	q := Query{
		Page:  page.Page,
		Limit: page.Limit,
	}
	if term := strings.TrimSpace(req.Query); term != "" {
		q.Filters = append(q.Filters, Filter{Field: FieldTitle, Op: OpContainsFold, Value: term})
	}

	posts, err := s.repository.Posts().Find(ctx, q)
	if err != nil {
		return nil, &RecordError{Resource: "post", Op: "search", Err: err}
	}
	return posts, nil
}

func (s *service) GetPost(ctx context.Context, id string) (*Post, error) {
	post, err := s.repository.Posts().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, &RecordError{Resource: "post", ID: id, Op: "get", Err: err}
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, NewValidationError("post id is required", "id")
	}

	existing, err := s.GetPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	fields := Fields{
		FieldUpdatedAt: s.now().UTC(),
	}
	if strings.TrimSpace(req.Title) != "" {
		fields[FieldTitle] = req.Title
	}
	if strings.TrimSpace(req.Content) != "" {
		fields[FieldContent] = req.Content
	}

	var newKey string
	if req.Image.present() {
		newKey, err = s.storeUpload(ctx, req.Image)
		if err != nil {
			return nil, &RecordError{Resource: "post", ID: req.ID, Op: "update", Err: err}
		}
		if err := s.media.Delete(ctx, existing.Image); err != nil {
			if cleanupErr := s.media.Delete(ctx, newKey); cleanupErr != nil {
				s.warnOrphan(newKey, cleanupErr)
			}
			return nil, &RecordError{Resource: "post", ID: req.ID, Op: "update", Err: err}
		}
		fields[FieldImage] = newKey
	}

	post, err := s.repository.Posts().UpdateByID(ctx, req.ID, fields)
	if err != nil {
		s.warnOrphan(newKey, err)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, &RecordError{Resource: "post", ID: req.ID, Op: "update", Err: err}
	}

	s.notify("post_updated", func(sink EventSink) error {
		return sink.PostUpdated(ctx, post)
	})

	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id string) error {
	existing, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if err := s.media.Delete(ctx, existing.Image); err != nil {
		return &RecordError{Resource: "post", ID: id, Op: "delete", Err: err}
	}

	deleted, err := s.repository.Posts().DeleteByID(ctx, id)
	if err != nil {
		return &RecordError{Resource: "post", ID: id, Op: "delete", Err: err}
	}
	if !deleted {
		return ErrPostNotFound
	}

	s.notify("post_deleted", func(sink EventSink) error {
		return sink.PostDeleted(ctx, id)
	})

	return nil
}

// Event operations

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	if err := ValidateStruct(ctx, req); err != nil {
		return nil, err
	}

	imageKey, err := s.storeUpload(ctx, req.Image)
	if err != nil {
		return nil, &RecordError{Resource: "event", Op: "create", Err: err}
	}

	event := &Event{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Date:      req.Date.UTC(),
		Time:      req.Time,
		Image:     imageKey,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repository.Events().Insert(ctx, event); err != nil {
		s.warnOrphan(imageKey, err)
		return nil, &RecordError{Resource: "event", ID: event.ID, Op: "create", Err: err}
	}

	s.notify("event_created", func(sink EventSink) error {
		return sink.EventCreated(ctx, event)
	})

	return event, nil
}

func (s *service) ListUpcomingEvents(ctx context.Context) ([]*Event, error) {
	events, err := s.repository.Events().Find(ctx, Query{
		Filters: []Filter{
			{Field: FieldDate, Op: OpGreaterOrEqual, Value: s.now().UTC()},
		},
		Sort: Sort{Field: FieldDate},
	})
	if err != nil {
		return nil, &RecordError{Resource: "event", Op: "list", Err: err}
	}
	return events, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	event, err := s.repository.Events().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, &RecordError{Resource: "event", ID: id, Op: "get", Err: err}
	}
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, id string) error {
	existing, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.media.Delete(ctx, existing.Image); err != nil {
		return &RecordError{Resource: "event", ID: id, Op: "delete", Err: err}
	}

	deleted, err := s.repository.Events().DeleteByID(ctx, id)
	if err != nil {
		return &RecordError{Resource: "event", ID: id, Op: "delete", Err: err}
	}
	if !deleted {
		return ErrEventNotFound
	}

	s.notify("event_deleted", func(sink EventSink) error {
		return sink.EventDeleted(ctx, id)
	})

	return nil
}

// Uploaded media

func (s *service) OpenMedia(ctx context.Context, key string) (io.ReadCloser, *ObjectMeta, error) {
	return s.media.Open(ctx, key)
}

func (s *service) MediaURL(key string) string {
	return s.media.URL(key)
}

func (s *service) storeUpload(ctx context.Context, upload *Upload) (string, error) {
	if !upload.present() {
		return "", nil
	}
	return s.media.Store(ctx, upload.Reader, upload.FileName)
}

// warnOrphan records a stored file whose owning record write failed. The
// file is not removed.
func (s *service) warnOrphan(key string, cause error) {
	if key == "" {
		return
	}
	slog.Warn("Stored media left without a record", "key", key, "error", cause)
}

func (s *service) notify(event string, fire func(EventSink) error) {
	if s.eventSink == nil {
		return
	}
	if err := fire(s.eventSink); err != nil {
		slog.Warn("Event sink failed", "event", event, "error", err)
	}
}

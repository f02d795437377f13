package ministry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/tendant/ministry-hub/pkg/ministry/objectkey"
)

// DefaultURLPrefix is the public path uploaded files are served under
const DefaultURLPrefix = "/uploads"

// MediaStore manages uploaded files on a BlobStore. It assigns storage keys
// and keeps deletes idempotent.
type MediaStore struct {
	blobs     BlobStore
	keys      objectkey.Generator
	urlPrefix string
	now       func() time.Time
}

// MediaOption configures a MediaStore
type MediaOption func(*MediaStore)

// WithKeyGenerator sets the storage key strategy
func WithKeyGenerator(gen objectkey.Generator) MediaOption {
	return func(m *MediaStore) {
		m.keys = gen
	}
}

// WithURLPrefix sets the public path prefix used by URL
func WithURLPrefix(prefix string) MediaOption {
	return func(m *MediaStore) {
		m.urlPrefix = strings.TrimRight(prefix, "/")
	}
}

// NewMediaStore creates a media store on top of a blob storage backend
func NewMediaStore(blobs BlobStore, opts ...MediaOption) *MediaStore {
	m := &MediaStore{
		blobs:     blobs,
		keys:      objectkey.NewRecommendedGenerator(),
		urlPrefix: DefaultURLPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store writes the file under a freshly generated key and returns the key
func (m *MediaStore) Store(ctx context.Context, reader io.Reader, originalName string) (string, error) {
	key := m.keys.GenerateKey(originalName, m.now())

	mimeType := mime.TypeByExtension(objectkey.Extension(originalName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	err := m.blobs.UploadWithParams(ctx, reader, UploadParams{
		ObjectKey: key,
		MimeType:  mimeType,
	})
	if err != nil {
		return "", &MediaError{Op: "store", Key: key, Err: err}
	}

	return key, nil
}

// Delete removes the file stored under key. Empty keys and files that no
// longer exist are not errors.
func (m *MediaStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := m.blobs.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			slog.Debug("Media already absent", "key", key)
			return nil
		}
		return &MediaError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Exists reports whether a file is stored under key
func (m *MediaStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.blobs.GetObjectMeta(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	return false, &MediaError{Op: "stat", Key: key, Err: err}
}

// Open returns a reader over the stored file along with its metadata
func (m *MediaStore) Open(ctx context.Context, key string) (io.ReadCloser, *ObjectMeta, error) {
	meta, err := m.blobs.GetObjectMeta(ctx, key)
	if err != nil {
		return nil, nil, &MediaError{Op: "open", Key: key, Err: err}
	}

	rc, err := m.blobs.Download(ctx, key)
	if err != nil {
		return nil, nil, &MediaError{Op: "open", Key: key, Err: err}
	}

	if byExt := mime.TypeByExtension(objectkey.Extension(key)); byExt != "" {
		meta.ContentType = byExt
	} else if meta.ContentType == "" {
		meta.ContentType = "application/octet-stream"
	}

	return rc, meta, nil
}

// URL returns the public URL a stored key is served under
func (m *MediaStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return m.urlPrefix + "/" + key
}

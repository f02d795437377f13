package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "nested/dir/1697040000123.txt"

	// Upload
	data := []byte("hello fs")
	if err := backend.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	// GetObjectMeta
	meta, err := backend.GetObjectMeta(ctx, key)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}

	// Download
	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	// Delete
	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Ensure file removed
	if _, err := os.Stat(filepath.Join(tmp, key)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	// Empty parent directories are cleaned up, the base directory stays
	if _, err := os.Stat(filepath.Join(tmp, "nested")); !os.IsNotExist(err) {
		t.Fatalf("expected empty directories removed, stat err=%v", err)
	}
	if _, err := os.Stat(tmp); err != nil {
		t.Fatalf("base directory removed: %v", err)
	}
}

func TestFSBackend_ContentTypeFromExtension(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	// plain text bytes under an image key are still served as the image type
	err = backend.UploadWithParams(ctx, bytes.NewReader([]byte("not really a jpeg")), ministry.UploadParams{
		ObjectKey: "1697040000123-abc.jpg",
		MimeType:  "image/jpeg",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	meta, err := backend.GetObjectMeta(ctx, "1697040000123-abc.jpg")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", meta.ContentType)
	}

	// keys without an extension fall back to sniffing
	if err := backend.Upload(ctx, "noext", bytes.NewReader([]byte("hello"))); err != nil {
		t.Fatalf("upload: %v", err)
	}
	meta, err = backend.GetObjectMeta(ctx, "noext")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("expected sniffed text type, got %q", meta.ContentType)
	}
}

func TestFSBackend_MissingObject(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if err := backend.Delete(ctx, "absent.png"); !errors.Is(err, ministry.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound on delete, got %v", err)
	}
	if _, err := backend.GetObjectMeta(ctx, "absent.png"); !errors.Is(err, ministry.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound on meta, got %v", err)
	}
	if _, err := backend.Download(ctx, "absent.png"); !errors.Is(err, ministry.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound on download, got %v", err)
	}
}

func TestFSBackend_RejectsEscapingKeys(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../outside.txt", "/etc/passwd", "a/../../b"} {
		if err := backend.Upload(ctx, key, bytes.NewReader([]byte("x"))); !errors.Is(err, ministry.ErrInvalidObjectKey) {
			t.Errorf("key %q: expected ErrInvalidObjectKey, got %v", key, err)
		}
		if _, err := backend.Download(ctx, key); !errors.Is(err, ministry.ErrInvalidObjectKey) {
			t.Errorf("key %q: expected ErrInvalidObjectKey on download, got %v", key, err)
		}
	}
}

func TestFSBackend_RequiresBaseDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without base directory")
	}
}

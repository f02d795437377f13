package memory_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/ministry-hub/pkg/ministry"
	memorystorage "github.com/tendant/ministry-hub/pkg/ministry/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := "1697040000123-0a1b2c3d.png"
	testData := "not really a png"

	t.Run("UploadWithParams", func(t *testing.T) {
		err := backend.UploadWithParams(ctx, strings.NewReader(testData), ministry.UploadParams{
			ObjectKey: testKey,
			MimeType:  "image/png",
		})
		require.NoError(t, err)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, testKey, meta.Key)
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.Equal(t, "image/png", meta.ContentType)
		assert.NotEmpty(t, meta.ETag)
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("UploadDefaultsMimeType", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "plain", strings.NewReader("x")))
		meta, err := backend.GetObjectMeta(ctx, "plain")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", meta.ContentType)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, testKey))

		_, err := backend.Download(ctx, testKey)
		assert.ErrorIs(t, err, ministry.ErrObjectNotFound)

		err = backend.Delete(ctx, testKey)
		assert.ErrorIs(t, err, ministry.ErrObjectNotFound)

		_, err = backend.GetObjectMeta(ctx, testKey)
		assert.ErrorIs(t, err, ministry.ErrObjectNotFound)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		err := backend.Upload(ctx, "", strings.NewReader("x"))
		assert.ErrorIs(t, err, ministry.ErrInvalidObjectKey)
	})
}

func TestMemoryBackend_ConcurrentUploads(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("object-%d", i)
			assert.NoError(t, backend.Upload(ctx, key, strings.NewReader(key)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, backend.Len())
	assert.Len(t, backend.Keys(), 50)
}

package ministry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

func TestValidateStruct(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ministry.ValidateStruct(ctx, ministry.CreateEventRequest{
		Title: "Picnic",
		Date:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Time:  "noon",
	}))

	err := ministry.ValidateStruct(ctx, ministry.CreatePostRequest{})
	var vErr *ministry.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"title", "content"}, vErr.Fields)
	assert.Equal(t, "missing required fields: title, content", vErr.Error())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count int64
		limit int
		want  int
	}{
		{0, 28, 0},
		{1, 28, 1},
		{28, 28, 1},
		{29, 28, 2},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ministry.TotalPages(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}

func TestQuerySkip(t *testing.T) {
	assert.Equal(t, 0, ministry.Query{Page: 3}.Skip())
	assert.Equal(t, 0, ministry.Query{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, 20, ministry.Query{Page: 3, Limit: 10}.Skip())
}

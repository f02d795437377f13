package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-06-02T18:30:00+02:00", time.Date(2024, 6, 2, 16, 30, 0, 0, time.UTC), false},
		{"2024-06-02T18:30", time.Date(2024, 6, 2, 18, 30, 0, 0, time.UTC), false},
		{"2024-06-02", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, false},
		{"02/06/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEventDate(tt.in)
			if tt.wantErr {
				var validationErr *ministry.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParsePageRequest(t *testing.T) {
	req, err := parsePageRequest(httptest.NewRequest("GET", "/?page=3&limit=10", nil))
	require.NoError(t, err)
	assert.Equal(t, ministry.PageRequest{Page: 3, Limit: 10}, req)

	req, err = parsePageRequest(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, ministry.PageRequest{}, req)

	_, err = parsePageRequest(httptest.NewRequest("GET", "/?page=one&limit=2.5", nil))
	var validationErr *ministry.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"page", "limit"}, validationErr.Fields)
}

package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

const (
	imageField       = "image"
	defaultMaxMemory = 32 << 20
)

// eventDateLayouts are tried in order when parsing an event date
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseForm reads a multipart or urlencoded body
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(defaultMaxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %v", ministry.NewValidationError("invalid form body"), err)
}

// formImage returns the uploaded image, or nil when the request has none.
// The caller closes the returned file.
func formImage(r *http.Request) (*ministry.Upload, multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", ministry.NewValidationError("invalid image upload", imageField), err)
	}

	return &ministry.Upload{Reader: file, FileName: header.Filename}, file, nil
}

// parsePageRequest reads ?page and ?limit. Absent values use the defaults.
func parsePageRequest(r *http.Request) (ministry.PageRequest, error) {
	var req ministry.PageRequest
	var bad []string

	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, "page")
		}
		req.Page = n
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, "limit")
		}
		req.Limit = n
	}

	if len(bad) > 0 {
		return req, ministry.NewValidationError("page and limit must be integers", bad...)
	}
	return req, nil
}

// parseEventDate accepts RFC 3339, a datetime-local value or a bare date.
// Values without a zone are read as UTC.
func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ministry.NewValidationError("invalid date", "date")
}

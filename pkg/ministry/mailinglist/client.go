// Package mailinglist forwards newsletter sign-ups to a Mailchimp-compatible
// audience.
package mailinglist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

const (
	serviceName    = "mailchimp"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Config holds the provider credentials and addressing
type Config struct {
	APIKey     string
	AudienceID string
	// ServerPrefix is the data centre, e.g. "us21". Derived from the API key
	// suffix when empty.
	ServerPrefix string
	// BaseURL replaces https://<dc>.api.mailchimp.com/3.0 entirely
	BaseURL string
	Timeout time.Duration
}

// Client subscribes email addresses to one audience
type Client struct {
	doer       heimdall.Doer
	apiKey     string
	audienceID string
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithDoer replaces the underlying HTTP client. The timeout from Config
// does not apply to it.
func WithDoer(doer heimdall.Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// New creates a client. A single attempt is made per subscription.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mailing list api key is required")
	}
	if cfg.AudienceID == "" {
		return nil, errors.New("mailing list audience id is required")
	}

	baseURL, err := resolveBaseURL(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		audienceID: cfg.AudienceID,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := []httpclient.Option{
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetryCount(0),
	}
	if c.doer != nil {
		clientOpts = append(clientOpts, httpclient.WithHTTPClient(c.doer))
	}
	c.doer = httpclient.NewClient(clientOpts...)
	return c, nil
}

// resolveBaseURL picks the API root from an explicit override, the
// configured data centre, or the "-dc" suffix of the API key
func resolveBaseURL(cfg Config) (string, error) {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/"), nil
	}

	dc := cfg.ServerPrefix
	if dc == "" {
		if i := strings.LastIndex(cfg.APIKey, "-"); i >= 0 && i < len(cfg.APIKey)-1 {
			dc = cfg.APIKey[i+1:]
		}
	}
	if dc == "" {
		return "", errors.New("mailing list server prefix is required when the api key has no data centre suffix")
	}
	return fmt.Sprintf("https://%s.api.mailchimp.com/3.0", dc), nil
}

type member struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type batchRequest struct {
	Members        []member `json:"members"`
	UpdateExisting bool     `json:"update_existing"`
}

// Subscribe adds email to the audience as subscribed, updating the member if
// it already exists
func (c *Client) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ministry.NewValidationError("email is required", "email")
	}

	body, err := json.Marshal(batchRequest{
		Members:        []member{{EmailAddress: email, Status: "subscribed"}},
		UpdateExisting: true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode subscription: %w", err)
	}

	url := fmt.Sprintf("%s/lists/%s", c.baseURL, c.audienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build subscription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.doer.Do(req)
	if resp == nil {
		if err == nil {
			err = errors.New("empty response")
		}
		return &ministry.ExternalServiceError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &ministry.ExternalServiceError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Body:       payload,
		Err:        fmt.Errorf("unexpected status %s", resp.Status),
	}
}

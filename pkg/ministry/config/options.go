package config

import (
	"fmt"
	"strings"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabaseURL selects the repository backend. The type is derived from the URL scheme.
func WithDatabaseURL(url string) Option {
	return func(c *ServerConfig) error {
		if _, err := databaseType(url); err != nil {
			return err
		}
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseName sets the mongo database used when the URI names none
func WithDatabaseName(name string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseName = name
		return nil
	}
}

// WithStorageURL selects the media storage backend
func WithStorageURL(url string) Option {
	return func(c *ServerConfig) error {
		if _, _, err := parseStorageURL(url); err != nil {
			return err
		}
		c.StorageURL = url
		return nil
	}
}

// WithUploadsURLPrefix sets the public prefix stored files are served under
func WithUploadsURLPrefix(prefix string) Option {
	return func(c *ServerConfig) error {
		c.UploadsURLPrefix = strings.TrimRight(prefix, "/")
		return nil
	}
}

// WithMaxUploadBytes caps the size of request bodies under /api
func WithMaxUploadBytes(n int64) Option {
	return func(c *ServerConfig) error {
		if n <= 0 {
			return fmt.Errorf("max upload bytes must be positive, got: %d", n)
		}
		c.MaxUploadBytes = n
		return nil
	}
}

// WithMailchimp configures the newsletter audience
func WithMailchimp(apiKey, audienceID string) Option {
	return func(c *ServerConfig) error {
		if apiKey == "" || audienceID == "" {
			return fmt.Errorf("mailchimp api key and audience id are required")
		}
		c.Mailchimp.APIKey = apiKey
		c.Mailchimp.AudienceID = audienceID
		return nil
	}
}

// WithMailchimpTimeout bounds a single subscription request
func WithMailchimpTimeout(d time.Duration) Option {
	return func(c *ServerConfig) error {
		c.Mailchimp.Timeout = d
		return nil
	}
}

// WithAMQP publishes record events to a topic exchange
func WithAMQP(url, exchange string) Option {
	return func(c *ServerConfig) error {
		if url == "" {
			return fmt.Errorf("amqp url cannot be empty")
		}
		c.AMQPURL = url
		if exchange != "" {
			c.AMQPExchange = exchange
		}
		return nil
	}
}

// WithAllowedOrigins sets the CORS origins, "*" allows any
func WithAllowedOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.AllowedOrigins = origins
		return nil
	}
}

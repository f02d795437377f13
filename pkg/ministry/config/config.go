package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tendant/ministry-hub/pkg/ministry"
	"github.com/tendant/ministry-hub/pkg/ministry/api"
	"github.com/tendant/ministry-hub/pkg/ministry/mailinglist"
	"github.com/tendant/ministry-hub/pkg/ministry/notify"
	"github.com/tendant/ministry-hub/pkg/ministry/repo/memory"
	repomongo "github.com/tendant/ministry-hub/pkg/ministry/repo/mongo"
	repopg "github.com/tendant/ministry-hub/pkg/ministry/repo/postgres"
	fsstorage "github.com/tendant/ministry-hub/pkg/ministry/storage/fs"
	memorystorage "github.com/tendant/ministry-hub/pkg/ministry/storage/memory"
	s3storage "github.com/tendant/ministry-hub/pkg/ministry/storage/s3"
)

const (
	DatabaseMemory   = "memory"
	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"

	StorageMemory = "memory"
	StorageFS     = "fs"
	StorageS3     = "s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:             "8080",
		Environment:      "development",
		LogLevel:         "info",
		DatabaseURL:      "memory",
		DatabaseName:     "ministry",
		StorageURL:       "file://./uploads",
		UploadsURLPrefix: ministry.DefaultURLPrefix,
		MaxUploadBytes:   32 << 20,
		Mailchimp: MailchimpConfig{
			Timeout: 10 * time.Second,
		},
		AMQPExchange:   notify.DefaultExchange,
		AllowedOrigins: []string{"*"},
		S3: S3Config{
			Region:       "us-east-1",
			SSEAlgorithm: "AES256",
		},
	}
}

// ServerConfig represents the configuration of the ministry API server
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// DatabaseURL is "memory", a mongodb:// URI or a postgres:// URL
	DatabaseURL  string `env:"DATABASE_URL" env-default:"memory"`
	DatabaseName string `env:"DATABASE_NAME" env-default:"ministry"`
	DatabaseType string // derived from DatabaseURL by Validate

	// StorageURL is memory://, file://<dir> or s3://<bucket>[/<prefix>]
	StorageURL       string `env:"STORAGE_URL" env-default:"file://./uploads"`
	StorageType      string // derived from StorageURL by Validate
	UploadsURLPrefix string `env:"UPLOADS_URL_PREFIX" env-default:"/uploads"`
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES" env-default:"33554432"`

	Mailchimp MailchimpConfig

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" env-default:"ministry.events"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`

	S3 S3Config
}

// MailchimpConfig addresses the newsletter audience
type MailchimpConfig struct {
	APIKey       string        `env:"MAILCHIMP_API_KEY"`
	AudienceID   string        `env:"MAILCHIMP_AUDIENCE_ID"`
	ServerPrefix string        `env:"MAILCHIMP_SERVER_PREFIX"`
	BaseURL      string        `env:"MAILCHIMP_BASE_URL"`
	Timeout      time.Duration `env:"MAILCHIMP_TIMEOUT" env-default:"10s"`
}

// S3Config holds the credentials used when STORAGE_URL is s3://
type S3Config struct {
	Region                 string `env:"AWS_REGION" env-default:"us-east-1"`
	AccessKeyID            string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey        string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint               string `env:"AWS_S3_ENDPOINT"`
	UsePathStyle           bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	EnableSSE              bool   `env:"AWS_S3_ENABLE_SSE" env-default:"false"`
	SSEAlgorithm           string `env:"AWS_S3_SSE_ALGORITHM" env-default:"AES256"`
	SSEKMSKeyID            string `env:"AWS_S3_SSE_KMS_KEY_ID"`
	CreateBucketIfNotExist bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Validate checks the configuration and derives the backend types
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	dbType, err := databaseType(c.DatabaseURL)
	if err != nil {
		return err
	}
	c.DatabaseType = dbType

	storageType, _, err := parseStorageURL(c.StorageURL)
	if err != nil {
		return err
	}
	c.StorageType = storageType

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got: %d", c.MaxUploadBytes)
	}
	if c.UploadsURLPrefix != "" && !strings.HasPrefix(c.UploadsURLPrefix, "/") && !strings.Contains(c.UploadsURLPrefix, "://") {
		return fmt.Errorf("uploads URL prefix must be a path or absolute URL, got: %s", c.UploadsURLPrefix)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildService wires the repository, media store and event sink selected by
// the configuration. The returned cleanup releases their connections.
func (c *ServerConfig) BuildService(ctx context.Context) (ministry.Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Close(closeCtx); err != nil {
			slog.Warn("Failed to close repository", "err", err)
		}
	})

	blobs, err := c.buildBlobStore(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sink, closeSink, err := c.buildEventSink()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if closeSink != nil {
		closers = append(closers, closeSink)
	}

	svc, err := ministry.New(
		ministry.WithRepository(repo),
		ministry.WithBlobStore(blobs, ministry.WithURLPrefix(c.UploadsURLPrefix)),
		ministry.WithEventSink(sink),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	return svc, cleanup, nil
}

// BuildSubscriber returns the newsletter gateway, or nil when no API key is configured
func (c *ServerConfig) BuildSubscriber() (api.Subscriber, error) {
	if c.Mailchimp.APIKey == "" {
		return nil, nil
	}
	client, err := mailinglist.New(mailinglist.Config{
		APIKey:       c.Mailchimp.APIKey,
		AudienceID:   c.Mailchimp.AudienceID,
		ServerPrefix: c.Mailchimp.ServerPrefix,
		BaseURL:      c.Mailchimp.BaseURL,
		Timeout:      c.Mailchimp.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mailing list client: %w", err)
	}
	return client, nil
}

// RouterOptions returns the HTTP options derived from the configuration
func (c *ServerConfig) RouterOptions(logger *slog.Logger) api.Options {
	uploadsPath := c.UploadsURLPrefix
	if !strings.HasPrefix(uploadsPath, "/") {
		uploadsPath = ""
	}
	return api.Options{
		UploadsPath:    uploadsPath,
		MaxUploadBytes: c.MaxUploadBytes,
		AllowedOrigins: c.AllowedOrigins,
		Logger:         logger,
	}
}

func (c *ServerConfig) buildRepository(ctx context.Context) (ministry.Repository, error) {
	switch c.DatabaseType {
	case DatabaseMemory:
		return memory.New(), nil
	case DatabaseMongo:
		repo, err := repomongo.Connect(ctx, c.DatabaseURL, c.DatabaseName)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		return repo, nil
	case DatabasePostgres:
		repo, err := repopg.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildBlobStore(ctx context.Context) (ministry.BlobStore, error) {
	storageType, location, err := parseStorageURL(c.StorageURL)
	if err != nil {
		return nil, err
	}

	switch storageType {
	case StorageMemory:
		return memorystorage.New(), nil
	case StorageFS:
		backend, err := fsstorage.New(fsstorage.Config{BaseDir: location})
		if err != nil {
			return nil, fmt.Errorf("failed to create fs storage: %w", err)
		}
		return backend, nil
	case StorageS3:
		bucket, prefix, _ := strings.Cut(location, "/")
		backend, err := s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 bucket,
			Prefix:                 prefix,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			EnableSSE:              c.S3.EnableSSE,
			SSEAlgorithm:           c.S3.SSEAlgorithm,
			SSEKMSKeyID:            c.S3.SSEKMSKeyID,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 storage: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

func (c *ServerConfig) buildEventSink() (ministry.EventSink, func(), error) {
	if c.AMQPURL == "" {
		return ministry.NewLoggingEventSink(slog.Default()), nil, nil
	}
	sink, err := notify.Dial(c.AMQPURL, c.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}
	return sink, func() {
		if err := sink.Close(); err != nil {
			slog.Warn("Failed to close event publisher", "err", err)
		}
	}, nil
}

func databaseType(url string) (string, error) {
	switch {
	case url == "" || url == "memory":
		return DatabaseMemory, nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DatabaseMongo, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DatabasePostgres, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory', 'mongodb://...' or 'postgresql://...')", url)
	}
}

// parseStorageURL splits a storage URL into its backend type and location.
// The location is the directory for fs and "bucket[/prefix]" for s3.
func parseStorageURL(url string) (string, string, error) {
	switch {
	case url == "" || url == "memory" || url == "memory://":
		return StorageMemory, "", nil
	case strings.HasPrefix(url, "file://"):
		path := strings.TrimPrefix(url, "file://")
		if path == "" {
			return "", "", errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return StorageFS, path, nil
	case strings.HasPrefix(url, "s3://"):
		location := strings.Trim(strings.TrimPrefix(url, "s3://"), "/")
		if bucket, _, _ := strings.Cut(location, "/"); bucket == "" {
			return "", "", errors.New("S3 bucket name cannot be empty in STORAGE_URL")
		}
		return StorageS3, location, nil
	default:
		return "", "", fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...' or 's3://...')", url)
	}
}

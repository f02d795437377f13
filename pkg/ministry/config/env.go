package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads the process environment into the configuration.
//
// Variables left unset fall back to their env-default tag, so WithEnv
// should come before any programmatic option that must win.
//
//	PORT, ENVIRONMENT, LOG_LEVEL
//	DATABASE_URL   memory | mongodb://... | postgres(ql)://...
//	DATABASE_NAME  mongo database when the URI names none
//	STORAGE_URL    memory:// | file://<dir> | s3://<bucket>[/<prefix>]
//	UPLOADS_URL_PREFIX, MAX_UPLOAD_BYTES
//	MAILCHIMP_API_KEY, MAILCHIMP_AUDIENCE_ID, MAILCHIMP_SERVER_PREFIX,
//	MAILCHIMP_BASE_URL, MAILCHIMP_TIMEOUT
//	AMQP_URL, AMQP_EXCHANGE
//	CORS_ALLOWED_ORIGINS  comma separated
//	AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_*
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// Usage returns a description of every environment variable the server reads
func Usage() string {
	var cfg ServerConfig
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return desc
}

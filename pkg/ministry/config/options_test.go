package config

import (
	"testing"
)

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}
}

func TestWithPortEmpty(t *testing.T) {
	_, err := Load(WithPort(""))
	if err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("production"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production environment, got: %s", cfg.Environment)
	}
}

func TestWithDatabaseURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantType  string
		wantError bool
	}{
		{"memory", "memory", DatabaseMemory, false},
		{"mongo", "mongodb://localhost:27017", DatabaseMongo, false},
		{"postgres", "postgres://localhost/db", DatabasePostgres, false},
		{"unsupported", "redis://localhost", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabaseURL(tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseType != tt.wantType {
				t.Errorf("expected database type %q, got %q", tt.wantType, cfg.DatabaseType)
			}
		})
	}
}

func TestWithStorageURLInvalid(t *testing.T) {
	if _, err := Load(WithStorageURL("ftp://host")); err == nil {
		t.Error("expected error for unsupported storage URL, got nil")
	}
}

func TestWithMaxUploadBytes(t *testing.T) {
	if _, err := Load(WithMaxUploadBytes(0)); err == nil {
		t.Error("expected error for zero limit, got nil")
	}
	cfg, err := Load(WithMaxUploadBytes(512))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxUploadBytes != 512 {
		t.Errorf("expected 512, got %d", cfg.MaxUploadBytes)
	}
}

func TestWithMailchimp(t *testing.T) {
	if _, err := Load(WithMailchimp("key-us21", "")); err == nil {
		t.Error("expected error for missing audience, got nil")
	}
	cfg, err := Load(WithMailchimp("key-us21", "list1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mailchimp.AudienceID != "list1" {
		t.Errorf("expected audience list1, got %s", cfg.Mailchimp.AudienceID)
	}
}

func TestWithAMQP(t *testing.T) {
	if _, err := Load(WithAMQP("", "")); err == nil {
		t.Error("expected error for empty url, got nil")
	}
	cfg, err := Load(WithAMQP("amqp://localhost", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AMQPExchange != "ministry.events" {
		t.Errorf("expected default exchange, got %s", cfg.AMQPExchange)
	}
}

package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/docship/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, DefaultServiceURL)
	}
	if len(cfg.AcceptedFormats) != 2 || cfg.AcceptedFormats[0] != "4.0" || cfg.AcceptedFormats[1] != "3.1" {
		t.Errorf("AcceptedFormats = %v, want [4.0 3.1]", cfg.AcceptedFormats)
	}
	if cfg.MaxAgeMonths != 1 {
		t.Errorf("MaxAgeMonths = %v, want 1", cfg.MaxAgeMonths)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %v, want 1", cfg.Workers)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.InboxDir = "/tmp/inbox"
	cfg.CertFile = "/tmp/cert.pem"
	cfg.KeyFile = "/tmp/key.pem"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", modify: func(c *Config) {}},
		{name: "empty formats", modify: func(c *Config) { c.AcceptedFormats = nil }, wantErr: true},
		{name: "blank format", modify: func(c *Config) { c.AcceptedFormats = []string{"4.0", " "} }, wantErr: true},
		{name: "zero max age", modify: func(c *Config) { c.MaxAgeMonths = 0 }, wantErr: true},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.HTTPTimeout = 0 }, wantErr: true},
		{name: "negative send rate", modify: func(c *Config) { c.SendRate = -1 }, wantErr: true},
		{name: "negative cache ttl", modify: func(c *Config) { c.CacheTTL = -time.Second }, wantErr: true},
		{name: "zero debounce", modify: func(c *Config) { c.Debounce = 0 }, wantErr: true},
		{name: "cert without key", modify: func(c *Config) { c.KeyFile = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateShipping(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "missing inbox", modify: func(c *Config) { c.InboxDir = "" }, wantErr: true},
		{name: "missing credential", modify: func(c *Config) { c.CertFile, c.KeyFile = "", "" }, wantErr: true},
		{name: "outbox equals inbox", modify: func(c *Config) { c.OutboxDir = c.InboxDir }, wantErr: true},
		{name: "separate outbox", modify: func(c *Config) { c.OutboxDir = "/tmp/outbox" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			if err := cfg.ValidateShipping(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateShipping() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Derivations(t *testing.T) {
	c1 := validConfig()
	c1.ServiceURL = "http://api.com/"
	if err := c1.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if c1.ServiceURL != "http://api.com" {
		t.Errorf("ServiceURL = %v, want http://api.com", c1.ServiceURL)
	}
	if c1.ThingsURL != "http://api.com" {
		t.Errorf("ThingsURL = %v, want service url", c1.ThingsURL)
	}

	c2 := validConfig()
	c2.ServiceURL = ""
	c2.ThingsURL = "http://things.local/"
	if err := c2.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if c2.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %v, want %v", c2.ServiceURL, DefaultServiceURL)
	}
	if c2.ThingsURL != "http://things.local" {
		t.Errorf("ThingsURL = %v, want http://things.local", c2.ThingsURL)
	}
}

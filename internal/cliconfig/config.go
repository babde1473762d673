package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/docship/internal/app"
	"github.com/bft-labs/docship/internal/domain"
)

// DefaultServiceURL is the default endpoint for shipping documents.
const DefaultServiceURL = "https://api.docship.io"

// Config holds CLI configuration for docship.
type Config struct {
	InboxDir  string
	OutboxDir string

	ServiceURL string
	AuthKey    string

	CertFile string
	KeyFile  string

	AcceptedFormats []string
	MaxAgeMonths    int
	Workers         int
	HTTPTimeout     time.Duration
	SendRate        float64

	ThingsDir string
	ThingsURL string
	CacheTTL  time.Duration

	Debounce time.Duration
	Once     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:      DefaultServiceURL,
		AcceptedFormats: app.DefaultAcceptedFormats(),
		MaxAgeMonths:    app.DefaultMaxAgeMonths,
		Workers:         app.DefaultWorkers,
		HTTPTimeout:     15 * time.Second,
		Debounce:        app.DefaultDebounce,
		AuthKey:         os.Getenv("DOCSHIP_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
	c.ThingsURL = strings.TrimRight(c.ThingsURL, "/")
	if c.ThingsURL == "" {
		c.ThingsURL = c.ServiceURL
	}

	if len(c.AcceptedFormats) == 0 {
		return invalid("accepted-formats must not be empty")
	}
	for _, f := range c.AcceptedFormats {
		if strings.TrimSpace(f) == "" {
			return invalid("accepted-formats contains an empty format")
		}
	}
	if c.MaxAgeMonths <= 0 {
		return invalid("max-age-months must be positive")
	}
	if c.Workers <= 0 {
		return invalid("workers must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return invalid("http timeout must be positive")
	}
	if c.SendRate < 0 {
		return invalid("send-rate must not be negative")
	}
	if c.CacheTTL < 0 {
		return invalid("cache-ttl must not be negative")
	}
	if c.Debounce <= 0 {
		return invalid("debounce must be positive")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return invalid("cert-file and key-file must be set together")
	}

	return nil
}

// ValidateShipping checks the settings needed by send and watch.
func (c *Config) ValidateShipping() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.InboxDir == "" {
		return invalid("inbox-dir is required")
	}
	if c.CertFile == "" {
		return invalid("cert-file and key-file are required")
	}
	if c.OutboxDir != "" && c.OutboxDir == c.InboxDir {
		return invalid("outbox-dir must differ from inbox-dir")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings replaces dst with a non-empty list.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setStringsFromString splits a comma separated list.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

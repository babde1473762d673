package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DOCSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("inbox-dir", os.Getenv("DOCSHIP_INBOX_DIR"), &cfg.InboxDir)
	s.setString("outbox-dir", os.Getenv("DOCSHIP_OUTBOX_DIR"), &cfg.OutboxDir)
	s.setString("service-url", os.Getenv("DOCSHIP_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("DOCSHIP_AUTH_KEY"), &cfg.AuthKey)
	s.setString("cert-file", os.Getenv("DOCSHIP_CERT_FILE"), &cfg.CertFile)
	s.setString("key-file", os.Getenv("DOCSHIP_KEY_FILE"), &cfg.KeyFile)
	s.setString("things-dir", os.Getenv("DOCSHIP_THINGS_DIR"), &cfg.ThingsDir)
	s.setString("things-url", os.Getenv("DOCSHIP_THINGS_URL"), &cfg.ThingsURL)

	s.setStringsFromString("accepted-formats", os.Getenv("DOCSHIP_ACCEPTED_FORMATS"), &cfg.AcceptedFormats)

	if err := s.setIntFromString("max-age-months", os.Getenv("DOCSHIP_MAX_AGE_MONTHS"), &cfg.MaxAgeMonths); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("DOCSHIP_WORKERS"), &cfg.Workers); err != nil {
		return err
	}

	if err := s.setFloatFromString("send-rate", os.Getenv("DOCSHIP_SEND_RATE"), &cfg.SendRate); err != nil {
		return err
	}

	if err := s.setDuration("timeout", os.Getenv("DOCSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("cache-ttl", os.Getenv("DOCSHIP_CACHE_TTL"), &cfg.CacheTTL); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("DOCSHIP_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("DOCSHIP_ONCE"), &cfg.Once)

	return nil
}

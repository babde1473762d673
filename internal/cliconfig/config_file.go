package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	InboxDir        string   `toml:"inbox_dir"`
	OutboxDir       string   `toml:"outbox_dir"`
	ServiceURL      string   `toml:"service_url"`
	AuthKey         string   `toml:"auth_key"`
	CertFile        string   `toml:"cert_file"`
	KeyFile         string   `toml:"key_file"`
	AcceptedFormats []string `toml:"accepted_formats"`
	MaxAgeMonths    int      `toml:"max_age_months"`
	Workers         int      `toml:"workers"`
	HTTPTimeout     string   `toml:"http_timeout"`
	SendRate        float64  `toml:"send_rate"`
	ThingsDir       string   `toml:"things_dir"`
	ThingsURL       string   `toml:"things_url"`
	CacheTTL        string   `toml:"cache_ttl"`
	Debounce        string   `toml:"debounce"`
	Once            *bool    `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.docship/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".docship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("inbox-dir", fc.InboxDir, &cfg.InboxDir)
	s.setString("outbox-dir", fc.OutboxDir, &cfg.OutboxDir)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("cert-file", fc.CertFile, &cfg.CertFile)
	s.setString("key-file", fc.KeyFile, &cfg.KeyFile)
	s.setString("things-dir", fc.ThingsDir, &cfg.ThingsDir)
	s.setString("things-url", fc.ThingsURL, &cfg.ThingsURL)

	s.setStrings("accepted-formats", fc.AcceptedFormats, &cfg.AcceptedFormats)

	s.setInt("max-age-months", fc.MaxAgeMonths, &cfg.MaxAgeMonths)
	s.setInt("workers", fc.Workers, &cfg.Workers)

	s.setFloat("send-rate", fc.SendRate, &cfg.SendRate)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("cache-ttl", fc.CacheTTL, &cfg.CacheTTL); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

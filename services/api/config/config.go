package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = 5000
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultShutdownTimeout  = 10 * time.Second
	defaultMaxSeriesDays    = 1096
	defaultExportTTL        = 24 * time.Hour
	defaultExportSweep      = "@every 15m"
	defaultExportRatePerMin = 5
	defaultSMTPPort         = 587
	defaultMailFromName     = "AquaVision India"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL string
	Port        int
	BaseURL     string
	BearerToken string
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// honoured. Empty means the peer address is the client.
	TrustedProxies  []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxSeriesDays   int

	ExportTTL           time.Duration
	ExportSweepSchedule string
	ExportRatePerMinute int

	SMTP SMTPConfig
}

// SMTPConfig describes the outbound mail relay. Host is empty when mail is disabled.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Enabled reports whether export links should be mailed.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Addr returns the host:port of the relay.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:                defaultPort,
		LogLevel:            defaultLogLevel,
		LogFormat:           defaultLogFormat,
		ShutdownTimeout:     defaultShutdownTimeout,
		MaxSeriesDays:       defaultMaxSeriesDays,
		ExportTTL:           defaultExportTTL,
		ExportSweepSchedule: defaultExportSweep,
		ExportRatePerMinute: defaultExportRatePerMin,
		SMTP: SMTPConfig{
			Port:     defaultSMTPPort,
			FromName: defaultMailFromName,
		},
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := positiveInt("PORT", portStr)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		port, err := positiveInt("API_PORT", portStr)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_URL")), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	proxies, err := parseProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return cfg, err
	}
	cfg.TrustedProxies = proxies

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return cfg, fmt.Errorf("invalid LOG_FORMAT: %s", cfg.LogFormat)
	}

	if v := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); v != "" {
		d, err := positiveDuration("SHUTDOWN_TIMEOUT", v)
		if err != nil {
			return cfg, err
		}
		cfg.ShutdownTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("MAX_SERIES_DAYS")); v != "" {
		n, err := positiveInt("MAX_SERIES_DAYS", v)
		if err != nil {
			return cfg, err
		}
		cfg.MaxSeriesDays = n
	}

	if v := strings.TrimSpace(os.Getenv("EXPORT_TTL")); v != "" {
		d, err := positiveDuration("EXPORT_TTL", v)
		if err != nil {
			return cfg, err
		}
		cfg.ExportTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("EXPORT_SWEEP_SCHEDULE")); v != "" {
		cfg.ExportSweepSchedule = v
	}

	if v := strings.TrimSpace(os.Getenv("EXPORT_RATE_PER_MINUTE")); v != "" {
		n, err := positiveInt("EXPORT_RATE_PER_MINUTE", v)
		if err != nil {
			return cfg, err
		}
		cfg.ExportRatePerMinute = n
	}

	if err := loadSMTP(&cfg.SMTP); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadSMTP(s *SMTPConfig) error {
	s.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	s.Username = firstNonEmpty(os.Getenv("SMTP_USER"), os.Getenv("GMAIL_USER"))
	s.Password = firstNonEmpty(os.Getenv("SMTP_PASSWORD"), os.Getenv("GMAIL_APP_PASSWORD"))

	// Gmail credentials alone imply the Gmail relay.
	if s.Host == "" && os.Getenv("GMAIL_USER") != "" {
		s.Host = "smtp.gmail.com"
	}

	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		port, err := positiveInt("SMTP_PORT", v)
		if err != nil {
			return err
		}
		s.Port = port
	}

	s.From = firstNonEmpty(os.Getenv("MAIL_FROM"), s.Username)
	if v := strings.TrimSpace(os.Getenv("MAIL_FROM_NAME")); v != "" {
		s.FromName = v
	}

	if s.Host != "" && s.From == "" {
		return errors.New("SMTP_HOST is set but neither MAIL_FROM nor SMTP_USER is")
	}
	return nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func positiveInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return n, nil
}

func positiveDuration(name, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return d, nil
}

// parseProxies splits a comma-separated list of IPs and CIDRs.
func parseProxies(raw string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry: %s", p)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

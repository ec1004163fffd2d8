package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	SMTP          SMTPConfig
	Contact       ContactConfig
	Consent       ConsentConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type SMTPConfig struct {
	Host               string
	Port               int
	User               string
	Pass               string
	Secure             bool // true: implicit TLS (465); false: STARTTLS (587)
	SendTimeoutSeconds int
}

type ContactConfig struct {
	ToEmail            string
	FromEmail          string
	DedupeTTLSeconds   int // 0 disables duplicate-lead suppression
	WhatsAppNumber     string
	MaxBodyBytes       int64
	RateLimitPerSecond float64
	RateLimitBurst     int
}

type ConsentConfig struct {
	CookieName string
	MaxAgeDays int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://devtorquato.com.br")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://devtorquato.com.br,https://www.devtorquato.com.br")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")

	// SMTP defaults mirror the hosting provider's relay; 465 is implicit TLS
	v.SetDefault("SMTP_HOST", "smtpi.kinghost.net")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_SECURE", true)
	v.SetDefault("SMTP_SEND_TIMEOUT_SECONDS", 15)

	v.SetDefault("CONTACT_TO", "leads@devtorquato.com.br")
	v.SetDefault("CONTACT_FROM", "Site DevTorquato <no-reply@devtorquato.com.br>")
	v.SetDefault("LEAD_DEDUPE_TTL_SECONDS", 600)
	v.SetDefault("CONTACT_WHATSAPP_NUMBER", "5582999405099")
	v.SetDefault("CONTACT_MAX_BODY_BYTES", 100*1024)
	v.SetDefault("CONTACT_RATE_LIMIT_PER_SECOND", 5.0)
	v.SetDefault("CONTACT_RATE_LIMIT_BURST", 10)

	v.SetDefault("CONSENT_COOKIE_NAME", "cookie_consent_v2")
	v.SetDefault("CONSENT_MAX_AGE_DAYS", 180)

	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "studio-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "devtorquato")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "studio-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		SMTP: SMTPConfig{
			Host:               v.GetString("SMTP_HOST"),
			Port:               v.GetInt("SMTP_PORT"),
			User:               v.GetString("SMTP_USER"),
			Pass:               v.GetString("SMTP_PASS"),
			Secure:             v.GetBool("SMTP_SECURE"),
			SendTimeoutSeconds: v.GetInt("SMTP_SEND_TIMEOUT_SECONDS"),
		},
		Contact: ContactConfig{
			ToEmail:            v.GetString("CONTACT_TO"),
			FromEmail:          v.GetString("CONTACT_FROM"),
			DedupeTTLSeconds:   v.GetInt("LEAD_DEDUPE_TTL_SECONDS"),
			WhatsAppNumber:     v.GetString("CONTACT_WHATSAPP_NUMBER"),
			MaxBodyBytes:       v.GetInt64("CONTACT_MAX_BODY_BYTES"),
			RateLimitPerSecond: v.GetFloat64("CONTACT_RATE_LIMIT_PER_SECOND"),
			RateLimitBurst:     v.GetInt("CONTACT_RATE_LIMIT_BURST"),
		},
		Consent: ConsentConfig{
			CookieName: v.GetString("CONSENT_COOKIE_NAME"),
			MaxAgeDays: v.GetInt("CONSENT_MAX_AGE_DAYS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// SMTP credentials are intentionally not required: without them the mail
// dispatcher runs in mocked mode so the API stays usable in previews and tests.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Contact.ToEmail == "" {
		return fmt.Errorf("CONTACT_TO is required")
	}
	if c.Contact.FromEmail == "" {
		return fmt.Errorf("CONTACT_FROM is required")
	}

	if c.SMTP.User != "" || c.SMTP.Pass != "" {
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when SMTP credentials are set")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("SMTP_PORT must be a valid TCP port")
		}
	}

	if c.Consent.MaxAgeDays <= 0 {
		return fmt.Errorf("CONSENT_MAX_AGE_DAYS must be positive")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// SMTPConfigured reports whether outbound mail credentials are present.
// Absence switches the mail dispatcher to mocked mode.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

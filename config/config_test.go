package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_SMTPConfigured(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "both credentials set",
			config: &Config{
				SMTP: SMTPConfig{User: "mailer", Pass: "secret"},
			},
			expected: true,
		},
		{
			name: "user only",
			config: &Config{
				SMTP: SMTPConfig{User: "mailer"},
			},
			expected: false,
		},
		{
			name: "pass only",
			config: &Config{
				SMTP: SMTPConfig{Pass: "secret"},
			},
			expected: false,
		},
		{
			name:     "no credentials",
			config:   &Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.SMTPConfigured()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:           "8080",
				BaseURL:        "https://devtorquato.com.br",
				AllowedOrigins: []string{"https://devtorquato.com.br"},
			},
			Contact: ContactConfig{
				ToEmail:   "leads@devtorquato.com.br",
				FromEmail: "no-reply@devtorquato.com.br",
			},
			Consent: ConsentConfig{CookieName: "cookie_consent_v2", MaxAgeDays: 180},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid without smtp credentials",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "valid with smtp credentials",
			mutate: func(c *Config) {
				c.SMTP = SMTPConfig{Host: "smtpi.kinghost.net", Port: 465, User: "u", Pass: "p"}
			},
			expectError: false,
		},
		{
			name: "missing port",
			mutate: func(c *Config) {
				c.Server.Port = ""
			},
			expectError: true,
			errorMsg:    "PORT is required",
		},
		{
			name: "missing cors origins",
			mutate: func(c *Config) {
				c.Server.AllowedOrigins = nil
			},
			expectError: true,
			errorMsg:    "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "missing contact recipient",
			mutate: func(c *Config) {
				c.Contact.ToEmail = ""
			},
			expectError: true,
			errorMsg:    "CONTACT_TO is required",
		},
		{
			name: "smtp credentials without host",
			mutate: func(c *Config) {
				c.SMTP = SMTPConfig{Port: 465, User: "u", Pass: "p"}
			},
			expectError: true,
			errorMsg:    "SMTP_HOST is required",
		},
		{
			name: "smtp credentials with bad port",
			mutate: func(c *Config) {
				c.SMTP = SMTPConfig{Host: "smtpi.kinghost.net", Port: 0, User: "u", Pass: "p"}
			},
			expectError: true,
			errorMsg:    "SMTP_PORT must be a valid TCP port",
		},
		{
			name: "non-positive consent expiry",
			mutate: func(c *Config) {
				c.Consent.MaxAgeDays = 0
			},
			expectError: true,
			errorMsg:    "CONSENT_MAX_AGE_DAYS must be positive",
		},
		{
			name: "profiling enabled without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	// Clean environment
	os.Clearenv()

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "https://devtorquato.com.br", cfg.Server.BaseURL)
	assert.Equal(t, []string{"https://devtorquato.com.br", "https://www.devtorquato.com.br"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "smtpi.kinghost.net", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.Secure)
	assert.Equal(t, 15, cfg.SMTP.SendTimeoutSeconds)
	assert.Equal(t, "leads@devtorquato.com.br", cfg.Contact.ToEmail)
	assert.Equal(t, 600, cfg.Contact.DedupeTTLSeconds)
	assert.Equal(t, "cookie_consent_v2", cfg.Consent.CookieName)
	assert.Equal(t, 180, cfg.Consent.MaxAgeDays)
	assert.False(t, cfg.SMTPConfigured())
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Clean environment
	os.Clearenv()

	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("ALLOWED_CORS_ORIGINS", "https://example.com, https://www.example.com")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_PORT", "587")
	os.Setenv("SMTP_SECURE", "false")
	os.Setenv("SMTP_USER", "mailer@example.com")
	os.Setenv("SMTP_PASS", "secret")
	os.Setenv("CONTACT_TO", "inbox@example.com")
	os.Setenv("LEAD_DEDUPE_TTL_SECONDS", "0")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Secure)
	assert.True(t, cfg.SMTPConfigured())
	assert.Equal(t, "inbox@example.com", cfg.Contact.ToEmail)
	assert.Equal(t, 0, cfg.Contact.DedupeTTLSeconds)
}

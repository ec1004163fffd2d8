package mailer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtorquato/studio-api/config"
	"github.com/devtorquato/studio-api/pkg/mailer"
)

func TestEscapeHTML(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"a & b", "a &amp; b"},
		{"1 < 2 > 0", "1 &lt; 2 &gt; 0"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mailer.EscapeHTML(tc.input))
	}
}

func TestEscapeHTML_Idempotencia(t *testing.T) {
	// Already-escaped ampersands escape again; callers must escape exactly once
	assert.Equal(t, "&amp;amp;", mailer.EscapeHTML("&amp;"))
}

func TestNew_MockedWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	d := mailer.New(cfg)
	assert.False(t, d.Configured())
}

func TestNew_ConfiguredWithCredentials(t *testing.T) {
	cfg := &config.Config{
		SMTP: config.SMTPConfig{
			Host: "smtp.example.com",
			Port: 465,
			User: "user",
			Pass: "pass",
		},
	}
	d := mailer.New(cfg)
	assert.True(t, d.Configured())
}

func TestMockDispatcher_SendAlwaysSucceeds(t *testing.T) {
	d := mailer.New(&config.Config{})
	require.False(t, d.Configured())

	err := d.Send(context.Background(), &mailer.Message{
		From:    "Site DevTorquato <no-reply@devtorquato.com.br>",
		To:      "leads@devtorquato.com.br",
		Subject: "Novo lead — SAAS",
		Text:    "Nome: Jo",
	})
	assert.NoError(t, err)
}

// Package mailer wraps outbound transactional email over SMTP. A dispatcher
// is either configured (real delivery) or mocked (no-op that logs the lead),
// decided once at construction from the presence of SMTP credentials.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/devtorquato/studio-api/config"
	"github.com/devtorquato/studio-api/pkg/logger"
	"github.com/devtorquato/studio-api/pkg/metrics"
)

// Message is a composed transactional email. HTML is optional; when set, all
// user-supplied text interpolated into it must already be escaped with
// EscapeHTML.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Dispatcher delivers composed messages. Send makes at most one delivery
// attempt; there is no retry or queueing.
type Dispatcher interface {
	Configured() bool
	Send(ctx context.Context, msg *Message) error
}

// New picks the operating mode from config: SMTP credentials present means
// real delivery, otherwise a mocked no-op dispatcher.
func New(cfg *config.Config) Dispatcher {
	if !cfg.SMTPConfigured() {
		logger.Warn("SMTP credentials not set, mail dispatcher running in mocked mode")
		return &mockDispatcher{}
	}
	return &smtpDispatcher{smtp: cfg.SMTP}
}

// smtpDispatcher delivers via the configured SMTP relay.
type smtpDispatcher struct {
	smtp config.SMTPConfig
}

func (d *smtpDispatcher) Configured() bool { return true }

func (d *smtpDispatcher) Send(ctx context.Context, msg *Message) error {
	start := time.Now()

	opts := []mail.Option{
		mail.WithPort(d.smtp.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.smtp.User),
		mail.WithPassword(d.smtp.Pass),
	}
	if d.smtp.Secure {
		// Implicit TLS (465)
		opts = append(opts, mail.WithSSL())
	} else {
		// STARTTLS (587)
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(d.smtp.Host, opts...)
	if err != nil {
		metrics.MailDeliveryTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	// The transport itself has no delivery bound, so enforce one here
	sendCtx, cancel := context.WithTimeout(ctx, time.Duration(d.smtp.SendTimeoutSeconds)*time.Second)
	defer cancel()

	if err := client.DialAndSendWithContext(sendCtx, m); err != nil {
		metrics.MailDeliveryDuration.WithLabelValues("error").Observe(metrics.MeasureDuration(start))
		metrics.MailDeliveryTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send mail: %w", err)
	}

	metrics.MailDeliveryDuration.WithLabelValues("success").Observe(metrics.MeasureDuration(start))
	metrics.MailDeliveryTotal.WithLabelValues("success").Inc()
	return nil
}

// mockDispatcher accepts every message without touching the network. It keeps
// the endpoint usable in previews and local development.
type mockDispatcher struct{}

func (d *mockDispatcher) Configured() bool { return false }

func (d *mockDispatcher) Send(_ context.Context, msg *Message) error {
	logger.Info("Mail delivery mocked",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	metrics.MailDeliveryTotal.WithLabelValues("mocked").Inc()
	return nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML neutralizes markup in user-supplied text before it is
// interpolated into an HTML body.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

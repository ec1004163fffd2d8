package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/devtorquato/studio-api/config"
	"github.com/devtorquato/studio-api/internal/models"
	"github.com/devtorquato/studio-api/pkg/logger"
	"github.com/devtorquato/studio-api/pkg/mailer"
	"github.com/devtorquato/studio-api/pkg/metrics"
)

// ErrSendFailed reports that the mail provider rejected the delivery attempt.
// There is exactly one attempt per submission; the caller surfaces the failure.
var ErrSendFailed = errors.New("email send failed")

// ContactResult describes what happened to an accepted submission.
type ContactResult struct {
	// Mocked is true when no SMTP credentials are configured and the lead was
	// only logged.
	Mocked bool
	// Duplicate is true when the sender re-submitted inside the dedupe window
	// and no new email was dispatched.
	Duplicate bool
	// Dropped is true for honeypot hits. The response is indistinguishable
	// from success so bots learn nothing.
	Dropped bool
}

// ContactService handles validated contact form submissions: bot filtering,
// duplicate suppression and the outbound lead email.
type ContactService struct {
	cfg         *config.Config
	dispatcher  mailer.Dispatcher
	recentLeads *gocache.Cache // nil when dedupe is disabled
}

// NewContactService creates a new contact service instance
func NewContactService(cfg *config.Config, dispatcher mailer.Dispatcher) *ContactService {
	var recentLeads *gocache.Cache
	if cfg.Contact.DedupeTTLSeconds > 0 {
		ttl := time.Duration(cfg.Contact.DedupeTTLSeconds) * time.Second
		recentLeads = gocache.New(ttl, 2*ttl)
	}

	return &ContactService{
		cfg:         cfg,
		dispatcher:  dispatcher,
		recentLeads: recentLeads,
	}
}

// SubmitLead processes a schema-validated submission. The submission is not
// mutated; every outcome is an explicit branch of the result.
func (s *ContactService) SubmitLead(ctx context.Context, sub *models.ContactSubmission) (*ContactResult, error) {
	if sub.Honeypot != "" {
		metrics.ContactFormSubmissions.WithLabelValues("bot").Inc()
		logger.Warn("Honeypot triggered, dropping submission silently")
		return &ContactResult{Dropped: true}, nil
	}

	if s.recentLeads != nil {
		if _, found := s.recentLeads.Get(sub.Email); found {
			metrics.ContactFormSubmissions.WithLabelValues("duplicate").Inc()
			logger.Info("Duplicate lead suppressed", zap.String("email", sub.Email))
			return &ContactResult{Duplicate: true}, nil
		}
	}

	if !s.dispatcher.Configured() {
		metrics.ContactFormSubmissions.WithLabelValues("mocked").Inc()
		logger.Info("Lead received (mocked, no SMTP credentials)",
			zap.String("name", sub.Name),
			zap.String("email", sub.Email),
			zap.String("project", string(sub.ProjectType)),
		)
		s.markRecent(sub.Email)
		return &ContactResult{Mocked: true}, nil
	}

	msg := s.composeLeadMail(sub)
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("send_failed").Inc()
		logger.Error("Failed to dispatch lead email", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	logger.Info("Lead email dispatched",
		zap.String("project", string(sub.ProjectType)),
		zap.String("reply_to", sub.Email),
	)
	s.markRecent(sub.Email)
	return &ContactResult{}, nil
}

func (s *ContactService) markRecent(email string) {
	if s.recentLeads != nil {
		s.recentLeads.SetDefault(email, struct{}{})
	}
}

// composeLeadMail builds the notification email: subject names the project
// type, the plain body enumerates every field and reply-to points at the lead
// so the recipient can answer directly.
func (s *ContactService) composeLeadMail(sub *models.ContactSubmission) *mailer.Message {
	subject := fmt.Sprintf("Novo lead — %s", strings.ToUpper(string(sub.ProjectType)))

	whatsapp := sub.Whatsapp
	if whatsapp == "" {
		whatsapp = "-"
	}
	budget := string(sub.BudgetRange)
	if budget == "" {
		budget = "-"
	}

	text := strings.Join([]string{
		"Nome: " + sub.Name,
		"E-mail: " + sub.Email,
		"WhatsApp: " + whatsapp,
		"Projeto: " + string(sub.ProjectType),
		"Orçamento: " + budget,
		"",
		sub.Message,
	}, "\n")

	html := fmt.Sprintf(`<div style="font-family:system-ui,Arial,sans-serif;line-height:1.4">
  <h2 style="margin:0 0 10px">%s</h2>
  <p><b>Nome:</b> %s</p>
  <p><b>E-mail:</b> %s</p>
  <p><b>WhatsApp:</b> %s</p>
  <p><b>Projeto:</b> %s</p>
  <p><b>Orçamento:</b> %s</p>
  <hr style="margin:16px 0;border:none;border-top:1px solid #e5e7eb" />
  <p>%s</p>
</div>`,
		mailer.EscapeHTML(subject),
		mailer.EscapeHTML(sub.Name),
		mailer.EscapeHTML(sub.Email),
		mailer.EscapeHTML(whatsapp),
		mailer.EscapeHTML(string(sub.ProjectType)),
		mailer.EscapeHTML(budget),
		strings.ReplaceAll(mailer.EscapeHTML(sub.Message), "\n", "<br/>"),
	)

	return &mailer.Message{
		From:    s.cfg.Contact.FromEmail,
		To:      s.cfg.Contact.ToEmail,
		ReplyTo: sub.Email,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
}

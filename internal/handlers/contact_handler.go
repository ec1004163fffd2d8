package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devtorquato/studio-api/internal/models"
	"github.com/devtorquato/studio-api/internal/schema"
	"github.com/devtorquato/studio-api/internal/services"
	"github.com/devtorquato/studio-api/pkg/logger"
	"github.com/devtorquato/studio-api/pkg/metrics"
)

// ContactServiceInterface is what the handler needs from the contact service.
type ContactServiceInterface interface {
	SubmitLead(ctx context.Context, sub *models.ContactSubmission) (*services.ContactResult, error)
}

type ContactHandler struct {
	service ContactServiceInterface
}

func NewContactHandler(service ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// SubmitContact handles POST /api/contact.
//
// Outcomes, in order of evaluation: 415 on any non-JSON content type before
// the body is even read, 400 invalid_payload with per-field issues when the
// schema rejects, 200 {ok:true,mocked:true} when no SMTP provider is
// configured, 502 email_send_failed when the provider rejects the single
// delivery attempt, 200 {ok:true} on success. Anything unexpected collapses
// to 400 invalid_or_failed with detail only in the server log.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while processing contact submission", zap.Any("panic", r))
			respondError(c, http.StatusBadRequest, models.ErrCodeInvalidOrFailed, fmt.Errorf("panic: %v", r))
		}
	}()

	if c.ContentType() != "application/json" {
		respondError(c, http.StatusUnsupportedMediaType, models.ErrCodeInvalidContentType,
			fmt.Errorf("unsupported content type %q", c.ContentType()))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidOrFailed, err)
		return
	}

	sub, issues := schema.ParseContact(body)
	if issues != nil {
		metrics.ContactFormSubmissions.WithLabelValues("invalid").Inc()
		attachError(c, errors.New("contact payload rejected by schema"))
		respondInvalidPayload(c, http.StatusBadRequest, issues)
		return
	}

	result, err := h.service.SubmitLead(c.Request.Context(), sub)
	if err != nil {
		if errors.Is(err, services.ErrSendFailed) {
			respondError(c, http.StatusBadGateway, models.ErrCodeEmailSendFailed, err)
			return
		}
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidOrFailed, err)
		return
	}

	// Honeypot drops and duplicates answer plain success on purpose:
	// indistinguishable from a delivered lead.
	c.JSON(http.StatusOK, models.ContactResponse{OK: true, Mocked: result.Mocked})
}

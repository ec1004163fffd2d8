package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devtorquato/studio-api/config"
	"github.com/devtorquato/studio-api/internal/consent"
	"github.com/devtorquato/studio-api/pkg/metrics"
)

// ConsentHandler exposes the consent state machine over HTTP. The visitor's
// record lives in a cookie on their own browser, so the machine runs
// per-request against a cookie-backed storage.
type ConsentHandler struct {
	cookieName string
	maxAgeDays int
	secure     bool
}

func NewConsentHandler(cfg *config.Config) *ConsentHandler {
	return &ConsentHandler{
		cookieName: cfg.Consent.CookieName,
		maxAgeDays: cfg.Consent.MaxAgeDays,
		secure:     cfg.IsProduction(),
	}
}

// consentState is the wire shape for both consent endpoints.
type consentState struct {
	State consent.State       `json:"state"`
	Prefs consent.Preferences `json:"prefs"`
}

// consentDecision is the POST body: one of the banner's actions, with
// explicit preferences only for "save".
type consentDecision struct {
	Action    string `json:"action" binding:"required,oneof=accept_all reject_all save"`
	Analytics bool   `json:"analytics"`
	Marketing bool   `json:"marketing"`
}

// GetConsent handles GET /api/consent: report whether the banner must show.
func (h *ConsentHandler) GetConsent(c *gin.Context) {
	m := h.manager(c)
	state := m.Load()
	c.JSON(http.StatusOK, consentState{State: state, Prefs: m.Prefs()})
}

// SaveConsent handles POST /api/consent: persist the visitor's decision.
func (h *ConsentHandler) SaveConsent(c *gin.Context) {
	var decision consentDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_decision", err)
		return
	}

	m := h.manager(c)
	m.Load()

	switch decision.Action {
	case "accept_all":
		m.AcceptAllNow()
		metrics.ConsentDecisions.WithLabelValues("accept_all").Inc()
	case "reject_all":
		m.RejectAllNow()
		metrics.ConsentDecisions.WithLabelValues("reject_all").Inc()
	case "save":
		m.Save(consent.Preferences{Analytics: decision.Analytics, Marketing: decision.Marketing})
		metrics.ConsentDecisions.WithLabelValues("custom").Inc()
	}

	c.JSON(http.StatusOK, consentState{State: m.State(), Prefs: m.Prefs()})
}

func (h *ConsentHandler) manager(c *gin.Context) *consent.Manager {
	storage := &cookieStorage{
		ctx:        c,
		maxAgeDays: h.maxAgeDays,
		secure:     h.secure,
	}
	return consent.NewManager(storage, h.cookieName, h.maxAgeDays)
}

// cookieStorage adapts the request/response cookie pair to the consent
// Storage port. Reads come from the request, writes go to the response.
type cookieStorage struct {
	ctx        *gin.Context
	maxAgeDays int
	secure     bool
}

func (s *cookieStorage) Get(key string) (string, error) {
	value, err := s.ctx.Cookie(key)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", consent.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *cookieStorage) Set(key, value string) error {
	s.ctx.SetCookie(key, value, s.maxAgeDays*24*60*60, "/", "", s.secure, false)
	return nil
}

func (s *cookieStorage) Remove(key string) error {
	s.ctx.SetCookie(key, "", -1, "/", "", s.secure, false)
	return nil
}

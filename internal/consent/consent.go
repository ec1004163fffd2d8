// Package consent implements the cookie-consent state machine: decide whether
// the consent banner must be shown, persist the visitor's choice with an
// expiry, and expose the current preferences. Persistence goes through the
// Storage port so the machine runs against cookies, local storage shims or
// plain memory in tests.
package consent

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/devtorquato/studio-api/pkg/logger"
)

// ErrNotFound is returned by Storage.Get when no record exists under the key.
var ErrNotFound = errors.New("consent record not found")

// Storage is the persistence port for consent records. Implementations are
// best-effort: any failure makes the machine fall open to re-prompting,
// never to assumed consent.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Preferences is the visitor's choice per cookie category. Essential is
// always true and not editable.
type Preferences struct {
	Essential bool `json:"essential"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// AcceptAll returns preferences with every category enabled.
func AcceptAll() Preferences {
	return Preferences{Essential: true, Analytics: true, Marketing: true}
}

// RejectAll returns preferences with only the essential category.
func RejectAll() Preferences {
	return Preferences{Essential: true}
}

// Record is the persisted consent decision. SavedAt is unix milliseconds,
// the same shape the site has always stored.
type Record struct {
	Prefs   Preferences `json:"prefs"`
	SavedAt int64       `json:"savedAt"`
}

// State is the visible UI state of the consent component.
type State string

const (
	StateHidden      State = "hidden"
	StateBanner      State = "banner"
	StatePreferences State = "preferences"
)

// Manager drives the consent state machine over an injected Storage.
type Manager struct {
	storage    Storage
	key        string
	maxAgeDays int
	now        func() time.Time

	state State
	prefs Preferences
}

// NewManager creates a consent manager persisting under key with the given
// expiry in days.
func NewManager(storage Storage, key string, maxAgeDays int) *Manager {
	return NewManagerWithClock(storage, key, maxAgeDays, time.Now)
}

// NewManagerWithClock is NewManager with an injected clock for tests.
func NewManagerWithClock(storage Storage, key string, maxAgeDays int, now func() time.Time) *Manager {
	return &Manager{
		storage:    storage,
		key:        key,
		maxAgeDays: maxAgeDays,
		now:        now,
		state:      StateBanner,
		prefs:      RejectAll(),
	}
}

// Load reads the persisted record and settles the initial state: hidden when
// a valid, unexpired record exists, banner otherwise. Stale or corrupt
// records are discarded.
func (m *Manager) Load() State {
	raw, err := m.storage.Get(m.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Consent storage read failed, re-prompting", zap.Error(err))
		}
		m.state = StateBanner
		return m.state
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.SavedAt == 0 || !rec.Prefs.Essential {
		m.discard()
		m.state = StateBanner
		return m.state
	}

	if m.expired(rec.SavedAt) {
		m.discard()
		m.state = StateBanner
		return m.state
	}

	m.prefs = rec.Prefs
	m.state = StateHidden
	return m.state
}

// State returns the current UI state.
func (m *Manager) State() State {
	return m.state
}

// Prefs returns the current preferences.
func (m *Manager) Prefs() Preferences {
	return m.prefs
}

// AcceptAllNow persists an accept-all decision and hides the banner.
func (m *Manager) AcceptAllNow() {
	m.save(AcceptAll())
}

// RejectAllNow persists a reject-all decision and hides the banner.
func (m *Manager) RejectAllNow() {
	m.save(RejectAll())
}

// OpenPreferences switches the banner to the granular settings view.
func (m *Manager) OpenPreferences() {
	if m.state == StateBanner {
		m.state = StatePreferences
	}
}

// Back returns from the settings view to the banner without saving.
func (m *Manager) Back() {
	if m.state == StatePreferences {
		m.state = StateBanner
	}
}

// Save persists a custom combination. Essential is forced on regardless of
// the input.
func (m *Manager) Save(p Preferences) {
	p.Essential = true
	m.save(p)
}

// save writes the record and hides the banner. A write failure is logged and
// ignored: the choice holds for this visit and the visitor is re-prompted on
// the next one.
func (m *Manager) save(p Preferences) {
	rec := Record{Prefs: p, SavedAt: m.now().UnixMilli()}
	raw, err := json.Marshal(rec)
	if err == nil {
		err = m.storage.Set(m.key, string(raw))
	}
	if err != nil {
		logger.Warn("Consent storage write failed", zap.Error(err))
	}

	m.prefs = p
	m.state = StateHidden
}

func (m *Manager) discard() {
	if err := m.storage.Remove(m.key); err != nil {
		logger.Warn("Failed to remove stale consent record", zap.Error(err))
	}
}

func (m *Manager) expired(savedAt int64) bool {
	maxAge := time.Duration(m.maxAgeDays) * 24 * time.Hour
	saved := time.UnixMilli(savedAt)
	return m.now().Sub(saved) > maxAge
}

// Package form ports the contact page's form logic: client-side validation
// against the shared schema, the honeypot short-circuit and the submission
// lifecycle. The controller talks to the submission endpoint through the
// httpclient port so tests never touch the network.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devtorquato/studio-api/internal/models"
	"github.com/devtorquato/studio-api/internal/schema"
	"github.com/devtorquato/studio-api/pkg/httpclient"
)

// Status is the submission lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission is still running. The UI disables the submit button for the
// same reason.
var ErrSubmitInFlight = errors.New("submission already in flight")

// statusResetDelay is how long the transient success/error banner stays up.
const statusResetDelay = 5 * time.Second

// Controller manages the contact form submission lifecycle.
type Controller struct {
	client     httpclient.Client
	endpoint   string
	resetDelay time.Duration

	mu     sync.Mutex
	status Status
}

// NewController creates a form controller posting to endpoint.
func NewController(client httpclient.Client, endpoint string) *Controller {
	return NewControllerWithResetDelay(client, endpoint, statusResetDelay)
}

// NewControllerWithResetDelay is NewController with a custom banner reset
// delay for tests.
func NewControllerWithResetDelay(client httpclient.Client, endpoint string, resetDelay time.Duration) *Controller {
	return &Controller{
		client:     client,
		endpoint:   endpoint,
		resetDelay: resetDelay,
		status:     StatusIdle,
	}
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submit validates and posts a submission.
//
// A populated honeypot returns immediately with no issues, no error, no
// network call and no state change: bots see nothing. Validation failures are
// returned as field issues for inline display, again without a network call.
// Otherwise the controller transitions idle→submitting, posts JSON, lands on
// success or error and schedules the automatic reset back to idle.
func (c *Controller) Submit(in models.ContactSubmission) (schema.Issues, error) {
	if in.Honeypot != "" {
		return nil, nil
	}

	normalized, issues := schema.ValidateContact(in)
	if issues != nil {
		return issues, nil
	}

	if err := c.begin(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(normalized)
	if err != nil {
		c.finish(StatusError)
		return nil, fmt.Errorf("failed to serialize submission: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		c.finish(StatusError)
		return nil, fmt.Errorf("failed to reach contact endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.finish(StatusError)
		return nil, fmt.Errorf("contact endpoint returned status %d", resp.StatusCode)
	}

	c.finish(StatusSuccess)
	return nil, nil
}

// begin transitions idle→submitting, rejecting concurrent submissions.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusSubmitting {
		return ErrSubmitInFlight
	}
	c.status = StatusSubmitting
	return nil
}

// finish records the outcome and schedules the transient banner reset.
func (c *Controller) finish(outcome Status) {
	c.mu.Lock()
	c.status = outcome
	c.mu.Unlock()

	time.AfterFunc(c.resetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Only reset if no new submission started meanwhile
		if c.status == outcome {
			c.status = StatusIdle
		}
	})
}

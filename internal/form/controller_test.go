package form_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtorquato/studio-api/internal/form"
	"github.com/devtorquato/studio-api/internal/models"
)

// recordingClient implements httpclient.Client and records every request.
type recordingClient struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	err      error
	block    chan struct{} // when set, Post waits until closed
}

type recordedRequest struct {
	url         string
	contentType string
	body        []byte
}

func (c *recordingClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	if c.block != nil {
		<-c.block
	}
	raw, _ := io.ReadAll(body)
	c.mu.Lock()
	c.requests = append(c.requests, recordedRequest{url: url, contentType: contentType, body: raw})
	c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"ok":true}`))),
	}, nil
}

func (c *recordingClient) Get(url string) (*http.Response, error) {
	return nil, nil
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	return nil, nil
}

func (c *recordingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func validInput() models.ContactSubmission {
	return models.ContactSubmission{
		Name:        "Joana Lima",
		Email:       "Joana@Empresa.com",
		ProjectType: models.ProjectSaaS,
		Message:     "Precisamos de ajuda com o sistema",
	}
}

func TestSubmit_Success(t *testing.T) {
	client := &recordingClient{}
	ctrl := form.NewController(client, "/api/contact")

	issues, err := ctrl.Submit(validInput())
	require.NoError(t, err)
	assert.Nil(t, issues)
	assert.Equal(t, form.StatusSuccess, ctrl.Status())
	require.Equal(t, 1, client.callCount())

	// The payload on the wire is the normalized submission
	var sent map[string]any
	require.NoError(t, json.Unmarshal(client.requests[0].body, &sent))
	assert.Equal(t, "joana@empresa.com", sent["email"])
	assert.Equal(t, "application/json", client.requests[0].contentType)
	assert.NotContains(t, sent, "whatsapp")
}

func TestSubmit_HoneypotNeverHitsNetwork(t *testing.T) {
	client := &recordingClient{}
	ctrl := form.NewController(client, "/api/contact")

	in := validInput()
	in.Honeypot = "spam"

	issues, err := ctrl.Submit(in)
	require.NoError(t, err)
	assert.Nil(t, issues, "no error is surfaced either")
	assert.Equal(t, form.StatusIdle, ctrl.Status(), "no state change")
	assert.Zero(t, client.callCount(), "no network call")
}

func TestSubmit_ValidationFailureStaysLocal(t *testing.T) {
	client := &recordingClient{}
	ctrl := form.NewController(client, "/api/contact")

	in := validInput()
	in.Name = "J"
	in.Message = "curta"

	issues, err := ctrl.Submit(in)
	require.NoError(t, err)
	assert.Contains(t, issues, "nome")
	assert.Contains(t, issues, "mensagem")
	assert.Equal(t, form.StatusIdle, ctrl.Status())
	assert.Zero(t, client.callCount())
}

func TestSubmit_ServerErrorTransitionsToError(t *testing.T) {
	client := &recordingClient{status: http.StatusBadGateway}
	ctrl := form.NewController(client, "/api/contact")

	_, err := ctrl.Submit(validInput())
	require.Error(t, err)
	assert.Equal(t, form.StatusError, ctrl.Status())
}

func TestSubmit_StatusResetsAfterDelay(t *testing.T) {
	client := &recordingClient{}
	ctrl := form.NewControllerWithResetDelay(client, "/api/contact", 20*time.Millisecond)

	_, err := ctrl.Submit(validInput())
	require.NoError(t, err)
	assert.Equal(t, form.StatusSuccess, ctrl.Status())

	assert.Eventually(t, func() bool {
		return ctrl.Status() == form.StatusIdle
	}, time.Second, 5*time.Millisecond)
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	client := &recordingClient{block: make(chan struct{})}
	ctrl := form.NewController(client, "/api/contact")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.Submit(validInput())
	}()

	// Wait for the first submission to take ownership
	require.Eventually(t, func() bool {
		return ctrl.Status() == form.StatusSubmitting
	}, time.Second, time.Millisecond)

	_, err := ctrl.Submit(validInput())
	assert.ErrorIs(t, err, form.ErrSubmitInFlight)

	close(client.block)
	<-done
	assert.Equal(t, 1, client.callCount(), "only one dispatch went out")
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devtorquato/studio-api/config"
	"github.com/devtorquato/studio-api/internal/models"
	"github.com/devtorquato/studio-api/internal/services"
	"github.com/devtorquato/studio-api/pkg/mailer"
)

// MockDispatcher implements mailer.Dispatcher for testing
type MockDispatcher struct {
	mock.Mock
	configured bool
}

func (m *MockDispatcher) Configured() bool {
	return m.configured
}

func (m *MockDispatcher) Send(ctx context.Context, msg *mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Contact: config.ContactConfig{
			ToEmail:          "leads@devtorquato.com.br",
			FromEmail:        "Site DevTorquato <no-reply@devtorquato.com.br>",
			DedupeTTLSeconds: 0,
		},
	}
}

func validLead() *models.ContactSubmission {
	return &models.ContactSubmission{
		Name:        "Joana Lima",
		Email:       "joana@empresa.com",
		Whatsapp:    "82999998888",
		ProjectType: models.ProjectSaaS,
		Message:     "Precisamos de ajuda com o sistema",
	}
}

func TestContactService_SubmitLead_Success(t *testing.T) {
	dispatcher := &MockDispatcher{configured: true}
	service := services.NewContactService(testConfig(), dispatcher)

	dispatcher.On("Send", mock.Anything, mock.MatchedBy(func(msg *mailer.Message) bool {
		return msg.Subject == "Novo lead — SAAS" &&
			msg.ReplyTo == "joana@empresa.com" &&
			msg.To == "leads@devtorquato.com.br"
	})).Return(nil).Once()

	result, err := service.SubmitLead(context.Background(), validLead())
	require.NoError(t, err)
	assert.False(t, result.Mocked)
	assert.False(t, result.Dropped)

	dispatcher.AssertExpectations(t)
}

func TestContactService_SubmitLead_MockedWithoutProvider(t *testing.T) {
	dispatcher := &MockDispatcher{configured: false}
	service := services.NewContactService(testConfig(), dispatcher)

	result, err := service.SubmitLead(context.Background(), validLead())
	require.NoError(t, err)
	assert.True(t, result.Mocked)

	dispatcher.AssertNotCalled(t, "Send")
}

func TestContactService_SubmitLead_SendFailure(t *testing.T) {
	dispatcher := &MockDispatcher{configured: true}
	service := services.NewContactService(testConfig(), dispatcher)

	dispatcher.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 550 rejected")).Once()

	result, err := service.SubmitLead(context.Background(), validLead())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrSendFailed)

	dispatcher.AssertExpectations(t)
}

func TestContactService_SubmitLead_HoneypotDroppedSilently(t *testing.T) {
	dispatcher := &MockDispatcher{configured: true}
	service := services.NewContactService(testConfig(), dispatcher)

	lead := validLead()
	lead.Honeypot = "spam"

	result, err := service.SubmitLead(context.Background(), lead)
	require.NoError(t, err)
	assert.True(t, result.Dropped)

	dispatcher.AssertNotCalled(t, "Send")
}

func TestContactService_SubmitLead_DuplicateSuppressed(t *testing.T) {
	dispatcher := &MockDispatcher{configured: true}
	cfg := testConfig()
	cfg.Contact.DedupeTTLSeconds = 600
	service := services.NewContactService(cfg, dispatcher)

	dispatcher.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := service.SubmitLead(context.Background(), validLead())
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := service.SubmitLead(context.Background(), validLead())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	// Only the first submission reached the dispatcher
	dispatcher.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactService_ComposedMail_EscapesHTMLBody(t *testing.T) {
	dispatcher := &MockDispatcher{configured: true}
	service := services.NewContactService(testConfig(), dispatcher)

	lead := validLead()
	lead.Name = "Jo <script>alert(1)</script>"
	lead.Message = "Preciso de um site com <b>destaque</b> & urgência"

	var sent *mailer.Message
	dispatcher.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Message)
	}).Return(nil).Once()

	_, err := service.SubmitLead(context.Background(), lead)
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.NotContains(t, sent.HTML, "<script>")
	assert.Contains(t, sent.HTML, "&lt;script&gt;")
	assert.Contains(t, sent.HTML, "&amp; urgência")
	// The plain-text body is left untouched
	assert.Contains(t, sent.Text, "Jo <script>alert(1)</script>")
}

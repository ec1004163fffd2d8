package models

// ProjectType identifies the kind of project a lead is asking about.
// Wire values match the site's form.
type ProjectType string

const (
	ProjectInstitutional ProjectType = "institucional"
	ProjectLanding       ProjectType = "landing"
	ProjectSaaS          ProjectType = "saas"
	ProjectAutomation    ProjectType = "automacao"
)

// BudgetRange is the optional budget bracket picked by the lead.
type BudgetRange string

const (
	BudgetBasic        BudgetRange = "basico"
	BudgetProfessional BudgetRange = "profissional"
	BudgetCustom       BudgetRange = "sobmedida"
)

// ContactSubmission is a validated, normalized contact form payload.
// Whatsapp and BudgetRange are empty when absent; Whatsapp is digits-only
// when present. The struct is treated as immutable after validation.
type ContactSubmission struct {
	Name        string      `json:"nome"`
	Email       string      `json:"email"`
	Whatsapp    string      `json:"whatsapp,omitempty"`
	ProjectType ProjectType `json:"projeto"`
	BudgetRange BudgetRange `json:"orcamento,omitempty"`
	Message     string      `json:"mensagem"`

	// Honeypot carries the hidden "website" field untouched. The schema never
	// validates it; callers drop the submission when it is non-empty.
	Honeypot string `json:"website,omitempty"`
}

// ContactResponse is the wire shape for every /api/contact outcome.
type ContactResponse struct {
	OK     bool                `json:"ok"`
	Mocked bool                `json:"mocked,omitempty"`
	Error  string              `json:"error,omitempty"`
	Issues map[string][]string `json:"issues,omitempty"`
}

// Error codes surfaced by the contact endpoint.
const (
	ErrCodeInvalidContentType = "invalid_content_type"
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeEmailSendFailed    = "email_send_failed"
	ErrCodeInvalidOrFailed    = "invalid_or_failed"
)

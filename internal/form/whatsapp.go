package form

import (
	"fmt"
	"net/url"

	"github.com/devtorquato/studio-api/internal/models"
)

// projectLabels are the human-readable names shown in the form's dropdown.
var projectLabels = map[models.ProjectType]string{
	models.ProjectInstitutional: "Site institucional",
	models.ProjectLanding:       "Landing page",
	models.ProjectSaaS:          "SaaS",
	models.ProjectAutomation:    "Automações",
}

// ProjectLabel returns the display label for a project type.
func ProjectLabel(p models.ProjectType) string {
	if label, ok := projectLabels[p]; ok {
		return label
	}
	return "(tipo de projeto)"
}

// WhatsAppLink builds the contact page's prefilled wa.me link from whatever
// the visitor has typed so far. Empty fields fall back to placeholders so the
// message template stays readable.
func WhatsAppLink(number string, name string, project models.ProjectType, message, email string) string {
	if name == "" {
		name = "(seu nome)"
	}
	if message == "" {
		message = "(sua mensagem)"
	}

	text := fmt.Sprintf("Olá! Sou %s.\nQuero falar sobre: %s.\nResumo: %s\nEmail: %s",
		name, ProjectLabel(project), message, email)

	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text))
}

// Package schema normalizes and validates contact form payloads. It is the
// single rule set shared by the in-process form controller and the HTTP
// endpoint: the server never trusts a client-side check.
package schema

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devtorquato/studio-api/internal/models"
	"github.com/devtorquato/studio-api/pkg/phone"
)

// Issues maps a wire field name to its violation messages. All fields are
// validated independently so every violation is reported in one pass.
type Issues map[string][]string

// contactRules mirrors models.ContactSubmission with the validation rules
// attached. Normalization happens before these rules run.
type contactRules struct {
	Name        string `json:"nome" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Whatsapp    string `json:"whatsapp" validate:"omitempty,number"`
	ProjectType string `json:"projeto" validate:"required,oneof=institucional landing saas automacao"`
	BudgetRange string `json:"orcamento" validate:"omitempty,oneof=basico profissional sobmedida"`
	Message     string `json:"mensagem" validate:"required,min=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the wire field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseContact decodes a raw JSON body and runs the contact rules over it.
// On success the returned submission is normalized: name and message trimmed,
// email lowercased, whatsapp reduced to digits or dropped entirely.
func ParseContact(data []byte) (*models.ContactSubmission, Issues) {
	var in models.ContactSubmission
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, Issues{"body": {"JSON inválido"}}
	}
	return ValidateContact(in)
}

// ValidateContact normalizes and validates an already-decoded submission.
// The honeypot field passes through untouched; whether it is populated is the
// caller's concern.
func ValidateContact(in models.ContactSubmission) (*models.ContactSubmission, Issues) {
	normalized := models.ContactSubmission{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Whatsapp:    phone.Digits(in.Whatsapp),
		ProjectType: models.ProjectType(strings.TrimSpace(string(in.ProjectType))),
		BudgetRange: models.BudgetRange(strings.TrimSpace(string(in.BudgetRange))),
		Message:     strings.TrimSpace(in.Message),
		Honeypot:    in.Honeypot,
	}

	rules := contactRules{
		Name:        normalized.Name,
		Email:       normalized.Email,
		Whatsapp:    normalized.Whatsapp,
		ProjectType: string(normalized.ProjectType),
		BudgetRange: string(normalized.BudgetRange),
		Message:     normalized.Message,
	}

	if err := validate.Struct(rules); err != nil {
		issues := Issues{}
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				field := fieldError.Field()
				issues[field] = append(issues[field], violationMessage(fieldError))
			}
			return nil, issues
		}
		return nil, Issues{"body": {"Payload inválido"}}
	}

	return &normalized, nil
}

// violationMessage keeps the site's original user-facing messages.
func violationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "nome":
		return "Informe seu nome"
	case "email":
		return "E-mail inválido"
	case "whatsapp":
		return "WhatsApp inválido"
	case "projeto":
		return "Escolha o tipo de projeto"
	case "orcamento":
		return "Faixa de orçamento inválida"
	case "mensagem":
		return "Descreva seu projeto"
	default:
		return "Campo inválido"
	}
}

package consent

import (
	"fmt"
	"strings"
)

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldConsentGivenFor = "consentGivenFor"
)

const (
	MsgNameRequired    = "Name is required"
	MsgNameLetters     = "Name must contain only letters and spaces"
	MsgEmailInvalid    = "Invalid email address"
	MsgConsentRequired = "At least one consent must be selected"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a submission before it reaches the service.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("validation error: %s", strings.Join(msgs, "; "))
}

// Messages groups field messages by field name, in rule order.
func (e *ValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

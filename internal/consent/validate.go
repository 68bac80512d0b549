package consent

import (
	"net/mail"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// Validate checks a record against the form rules. It returns nil or a
// *ValidationError listing every violated rule.
func Validate(r Record) error {
	var fields []FieldError

	if r.Name == "" {
		fields = append(fields, FieldError{Field: FieldName, Message: MsgNameRequired})
	} else if !namePattern.MatchString(r.Name) {
		fields = append(fields, FieldError{Field: FieldName, Message: MsgNameLetters})
	}

	if !isEmail(r.Email) {
		fields = append(fields, FieldError{Field: FieldEmail, Message: MsgEmailInvalid})
	}

	if len(r.ConsentGivenFor) == 0 {
		fields = append(fields, FieldError{Field: FieldConsentGivenFor, Message: MsgConsentRequired})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// isEmail accepts a bare address only; display names and angle brackets
// are rejected.
func isEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rohmanhakim/consents/internal/consent"
)

const (
	focusName = iota
	focusEmail
	focusFirstOption
)

// formModel collects one consent record. Field errors come from
// consent.Validate and are cleared on the next edit of that field.
type formModel struct {
	name     textinput.Model
	email    textinput.Model
	options  []string
	selected map[string]bool
	focus    int
	errors   map[string]string
	keys     FormKeyMap
}

func newForm() formModel {
	name := textinput.New()
	name.Placeholder = "Jane Doe"
	name.CharLimit = 80
	name.Focus()

	email := textinput.New()
	email.Placeholder = "jane@example.com"
	email.CharLimit = 120

	return formModel{
		name:     name,
		email:    email,
		options:  append([]string(nil), consent.Options...),
		selected: make(map[string]bool),
		errors:   make(map[string]string),
		keys:     DefaultFormKeyMap(),
	}
}

// record builds the record in catalogue order of the selected options.
func (f formModel) record() consent.Record {
	given := make([]string, 0, len(f.options))
	for _, opt := range f.options {
		if f.selected[opt] {
			given = append(given, opt)
		}
	}
	return consent.Record{
		Name:            strings.TrimSpace(f.name.Value()),
		Email:           strings.TrimSpace(f.email.Value()),
		ConsentGivenFor: given,
	}
}

// validate runs the shared validation and keeps the per-field messages.
func (f *formModel) validate() (consent.Record, bool) {
	rec := f.record()
	f.errors = make(map[string]string)

	err := consent.Validate(rec)
	if err == nil {
		return rec, true
	}

	var vErr *consent.ValidationError
	if errors.As(err, &vErr) {
		for field, msgs := range vErr.Messages() {
			f.errors[field] = msgs[0]
		}
	}
	return rec, false
}

func (f formModel) fieldCount() int {
	return focusFirstOption + len(f.options)
}

func (f *formModel) setFocus(i int) {
	n := f.fieldCount()
	f.focus = ((i % n) + n) % n

	f.name.Blur()
	f.email.Blur()
	switch f.focus {
	case focusName:
		f.name.Focus()
	case focusEmail:
		f.email.Focus()
	}
}

func (f *formModel) toggleFocused() {
	idx := f.focus - focusFirstOption
	if idx < 0 || idx >= len(f.options) {
		return
	}
	opt := f.options[idx]
	f.selected[opt] = !f.selected[opt]
	delete(f.errors, consent.FieldConsentGivenFor)
}

// update handles editing keys. Submit and Cancel are handled by the parent.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch {
		case key.Matches(keyMsg, f.keys.NextField):
			f.setFocus(f.focus + 1)
			return f, nil
		case key.Matches(keyMsg, f.keys.PrevField):
			f.setFocus(f.focus - 1)
			return f, nil
		case f.focus >= focusFirstOption && key.Matches(keyMsg, f.keys.Toggle):
			f.toggleFocused()
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusName:
		f.name, cmd = f.name.Update(msg)
		if isKey {
			delete(f.errors, consent.FieldName)
		}
	case focusEmail:
		f.email, cmd = f.email.Update(msg)
		if isKey {
			delete(f.errors, consent.FieldEmail)
		}
	}
	return f, cmd
}

func (f formModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Give consent"))
	b.WriteString("\n")

	b.WriteString(f.inputLine("Name", f.name.View(), f.focus == focusName))
	b.WriteString(f.errorLine(consent.FieldName))
	b.WriteString(f.inputLine("Email", f.email.View(), f.focus == focusEmail))
	b.WriteString(f.errorLine(consent.FieldEmail))

	b.WriteString("\n")
	for i, opt := range f.options {
		box := "[ ]"
		if f.selected[opt] {
			box = "[x]"
		}
		line := box + " " + opt
		if f.focus == focusFirstOption+i {
			line = focusedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(f.errorLine(consent.FieldConsentGivenFor))

	return formStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (f formModel) inputLine(label string, input string, focused bool) string {
	l := labelStyle.Render(label)
	if focused {
		l = focusedStyle.Inherit(labelStyle).Render(label)
	}
	return l + input + "\n"
}

func (f formModel) errorLine(field string) string {
	msg, ok := f.errors[field]
	if !ok {
		return ""
	}
	return fieldErrorStyle.Render("  "+msg) + "\n"
}

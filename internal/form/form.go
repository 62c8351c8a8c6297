// Package form validates create inputs before they are submitted. It checks
// the same create schemas the API enforces so a rejected form never reaches
// the network.
package form

import (
	"strconv"
	"strings"

	"paperpulse/internal/entity"
	"paperpulse/internal/schema"
)

// Values holds raw text fields keyed by their JSON name.
type Values map[string]string

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// FormValidationError lists every field that failed client-side validation.
type FormValidationError struct {
	Fields []FieldError
}

func (e *FormValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "" when that field passed.
func (e *FormValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

func ValidateAuthor(in entity.AuthorCreate) error {
	return check(schema.AuthorCreate(), in, nil)
}

func ValidatePaper(in entity.PaperCreate) error {
	return check(schema.PaperCreate(), in, nil)
}

// ParseAuthor builds an AuthorCreate from raw text and validates it.
// Text is trimmed and an empty bio is left out.
func ParseAuthor(v Values) (entity.AuthorCreate, error) {
	in := entity.AuthorCreate{
		Name:  v.text("name"),
		Email: v.text("email"),
		Bio:   v.optional("bio"),
	}
	return in, ValidateAuthor(in)
}

// ParsePaper builds a PaperCreate from raw text and validates it. author_id
// is converted to an integer here; text that is not a whole number is
// reported as a field error.
func ParsePaper(v Values) (entity.PaperCreate, error) {
	in := entity.PaperCreate{
		Title:    v.text("title"),
		DOI:      v.text("doi"),
		Abstract: v.optional("abstract"),
	}

	var pre []FieldError
	switch raw := v.text("author_id"); {
	case raw == "":
		pre = append(pre, FieldError{Field: "author_id", Message: "is required"})
	default:
		id, err := strconv.Atoi(raw)
		if err != nil {
			pre = append(pre, FieldError{Field: "author_id", Message: "must be a whole number"})
		} else {
			in.AuthorID = id
		}
	}
	return in, check(schema.PaperCreate(), in, pre)
}

func (v Values) text(name string) string {
	return strings.TrimSpace(v[name])
}

func (v Values) optional(name string) *string {
	s := v.text(name)
	if s == "" {
		return nil
	}
	return &s
}

func check(s schema.Object, in any, pre []FieldError) error {
	violations, err := schema.ValidateValue(s, in)
	if err != nil {
		return err
	}
	fields := pre
	for _, v := range violations {
		if hasField(fields, v.Path) {
			continue
		}
		fields = append(fields, FieldError{Field: v.Path, Message: message(v.Message)})
	}
	if len(fields) == 0 {
		return nil
	}
	return &FormValidationError{Fields: fields}
}

// message rewords schema output for people filling in a form: a blank
// input reads as a missing one.
func message(m string) string {
	if m == "must not be empty" {
		return "is required"
	}
	return m
}

func hasField(fields []FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

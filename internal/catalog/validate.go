package catalog

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// FieldError is one rejected form field with the message to show next to
// it when the form is re-rendered.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseValues validates and sanitizes submitted form values against a
// schema. Text fields are trimmed and HTML-escaped, numbers parsed, enum
// values checked against the allowed set (never coerced). The returned
// attribute map is safe to persist; errs is non-empty when any field was
// rejected.
func ParseValues(s Schema, form map[string]string) (map[string]any, []FieldError) {
	attrs := make(map[string]any, len(s.Fields))
	var errs []FieldError

	reject := func(f FieldSpec) {
		msg := f.Message
		if msg == "" {
			msg = f.Label + " is invalid."
		}
		errs = append(errs, FieldError{Field: f.Name, Message: msg})
	}

	for _, f := range s.Fields {
		raw := strings.TrimSpace(form[f.Name])

		switch f.Kind {
		case FieldText:
			// length limits count characters, not bytes
			n := utf8.RuneCountInString(raw)
			if n < f.MinLen || (f.MaxLen > 0 && n > f.MaxLen) {
				reject(f)
				continue
			}
			if raw == "" && !f.Required {
				continue
			}
			attrs[f.Name] = html.EscapeString(raw)

		case FieldNumber:
			if raw == "" {
				if f.Required {
					reject(f)
				}
				continue
			}
			n, err := cast.ToFloat64E(raw)
			if err != nil || (f.HasMin && n < f.Min) {
				reject(f)
				continue
			}
			attrs[f.Name] = n

		case FieldEnum:
			if raw == "" {
				if f.Required {
					reject(f)
				}
				continue
			}
			if !contains(f.Enum, raw) {
				reject(f)
				continue
			}
			attrs[f.Name] = raw
		}
	}
	return attrs, errs
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

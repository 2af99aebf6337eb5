// Package forms declares the lead-capture form types: which request fields
// each accepts, which are required, and where submissions are stored.
package forms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"collegedir/apperr"
)

type Field struct {
	Name     string `yaml:"name"`
	Column   string `yaml:"column,omitempty"`
	Required bool   `yaml:"required"`
}

// StoredAs is the document key the field is persisted under.
func (f Field) StoredAs() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

type Form struct {
	Type           string  `yaml:"type"`
	Path           string  `yaml:"path"`
	Collection     string  `yaml:"collection"`
	Submitter      string  `yaml:"submitter"`
	FailureMessage string  `yaml:"failure_message"`
	Fields         []Field `yaml:"fields"`
}

func (f *Form) Required() []string {
	var out []string
	for _, field := range f.Fields {
		if field.Required {
			out = append(out, field.Name)
		}
	}
	return out
}

// Check reports configuration mistakes in a form definition.
func (f *Form) Check() error {
	switch {
	case f.Type == "":
		return fmt.Errorf("form type is required")
	case !strings.HasPrefix(f.Path, "/"):
		return fmt.Errorf("form %s: path must start with /", f.Type)
	case f.Collection == "":
		return fmt.Errorf("form %s: collection is required", f.Type)
	case len(f.Fields) == 0:
		return fmt.Errorf("form %s: no fields declared", f.Type)
	}

	names := make(map[string]bool, len(f.Fields))
	columns := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		if field.Name == "" {
			return fmt.Errorf("form %s: field without name", f.Type)
		}
		if names[field.Name] || columns[field.StoredAs()] {
			return fmt.Errorf("form %s: duplicate field %s", f.Type, field.Name)
		}
		names[field.Name] = true
		columns[field.StoredAs()] = true
	}
	if !names[f.Submitter] {
		return fmt.Errorf("form %s: submitter %q is not a declared field", f.Type, f.Submitter)
	}
	return nil
}

// Extract pulls the declared fields out of a decoded JSON body. Scalars are
// stored as text; a missing or null field becomes "". Undeclared keys are
// dropped.
func (f *Form) Extract(body map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		text, err := scalarText(body[field.Name])
		if err != nil {
			return nil, apperr.Validationf("%s must be a text value.", field.Name)
		}
		values[field.Name] = text
	}
	return values, nil
}

// StoredColumns lists the stored keys in declaration order.
func (f *Form) StoredColumns() []string {
	cols := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		cols = append(cols, field.StoredAs())
	}
	return cols
}

// Columns maps extracted request values onto their stored keys.
func (f *Form) Columns(values map[string]string) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		out[field.StoredAs()] = values[field.Name]
	}
	return out
}

func scalarText(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

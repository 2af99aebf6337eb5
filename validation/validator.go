package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"collegedir/models"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,18}[0-9]$`)

// Validator wraps the go-playground validator with the directory's custom
// rules registered.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("institution_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, t := range models.InstitutionTypes {
			if value == t {
				return true
			}
		}
		return false
	})
	return &Validator{validate: v}
}

// Struct validates s using its `validate` tags.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// Required reports the first name in order whose value is absent, empty or
// only whitespace.
func (v *Validator) Required(order []string, values map[string]string) (string, bool) {
	for _, name := range order {
		if err := v.validate.Var(strings.TrimSpace(values[name]), "required"); err != nil {
			return name, false
		}
	}
	return "", true
}

// Describe flattens validator errors into "field: problem" lines.
func Describe(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.TrimPrefix(e.Namespace(), "Institution.")
		switch e.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s: is required", field))
		case "min":
			out = append(out, fmt.Sprintf("%s: needs at least %s entries", field, e.Param()))
		case "gte", "lte":
			out = append(out, fmt.Sprintf("%s: must be %s %s", field, e.Tag(), e.Param()))
		case "email", "url", "phone":
			out = append(out, fmt.Sprintf("%s: invalid %s format", field, e.Tag()))
		case "institution_type":
			out = append(out, fmt.Sprintf("%s: must be one of %s", field, strings.Join(models.InstitutionTypes, ", ")))
		default:
			out = append(out, fmt.Sprintf("%s: failed %s", field, e.Tag()))
		}
	}
	return out
}

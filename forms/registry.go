package forms

import "fmt"

const (
	AppliedCollege    = "applied-college"
	CounselingRequest = "counseling-request"
	Response          = "response"
	Contact           = "contact"
)

// Defaults returns the built-in form definitions.
func Defaults() []Form {
	return []Form{
		{
			Type:           AppliedCollege,
			Path:           "/save-applied-college",
			Collection:     "shiksha_applied_colleges",
			Submitter:      "name",
			FailureMessage: "Error saving applied college data.",
			Fields: []Field{
				{Name: "name", Required: true},
				{Name: "email", Required: true},
				{Name: "phone", Required: true},
				{Name: "college_id", Required: true},
				{Name: "message"},
			},
		},
		{
			Type:           CounselingRequest,
			Path:           "/submit-counseling-request",
			Collection:     "shiksha_data",
			Submitter:      "fullname",
			FailureMessage: "Error saving user to database.",
			Fields: []Field{
				{Name: "fullname", Required: true},
				{Name: "email", Required: true},
				{Name: "phone", Required: true},
				{Name: "interestedCourse", Required: true},
			},
		},
		{
			Type:           Response,
			Path:           "/save-response",
			Collection:     "shiksha_responses",
			Submitter:      "name",
			FailureMessage: "Error saving response.",
			Fields: []Field{
				{Name: "name", Column: "fullname", Required: true},
				{Name: "email", Required: true},
				{Name: "phone", Required: true},
				{Name: "state", Required: true},
				{Name: "city", Required: true},
				{Name: "course", Required: true},
				{Name: "message"},
			},
		},
		{
			Type:           Contact,
			Path:           "/submit-contact-form",
			Collection:     "shiksha_contact_messages",
			Submitter:      "name",
			FailureMessage: "Error saving contact form.",
			Fields: []Field{
				{Name: "name", Required: true},
				{Name: "email", Required: true},
				{Name: "phone", Required: true},
				{Name: "subject", Required: true},
				{Name: "message"},
			},
		},
	}
}

// Merge replaces defaults by type with overrides and appends new types.
func Merge(defaults, overrides []Form) []Form {
	out := make([]Form, 0, len(defaults)+len(overrides))
	index := make(map[string]int, len(defaults))
	for _, f := range defaults {
		index[f.Type] = len(out)
		out = append(out, f)
	}
	for _, f := range overrides {
		if i, ok := index[f.Type]; ok {
			out[i] = f
			continue
		}
		index[f.Type] = len(out)
		out = append(out, f)
	}
	return out
}

type Registry struct {
	order  []*Form
	byType map[string]*Form
}

func NewRegistry(defs []Form) (*Registry, error) {
	r := &Registry{byType: make(map[string]*Form, len(defs))}
	paths := make(map[string]string, len(defs))
	for i := range defs {
		f := defs[i]
		if err := f.Check(); err != nil {
			return nil, err
		}
		if _, dup := r.byType[f.Type]; dup {
			return nil, fmt.Errorf("form %s declared twice", f.Type)
		}
		if other, dup := paths[f.Path]; dup {
			return nil, fmt.Errorf("forms %s and %s share path %s", other, f.Type, f.Path)
		}
		paths[f.Path] = f.Type
		r.byType[f.Type] = &f
		r.order = append(r.order, &f)
	}
	return r, nil
}

func (r *Registry) Lookup(formType string) (*Form, bool) {
	f, ok := r.byType[formType]
	return f, ok
}

func (r *Registry) All() []*Form {
	return r.order
}

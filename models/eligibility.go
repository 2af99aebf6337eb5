package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Eligibility is one program's admission requirement.
type Eligibility struct {
	Name     string `bson:"name" json:"name" validate:"required"`
	Required string `bson:"required" json:"required"`
}

// EligibilityList is the canonical eligibility_criteria shape. Older records
// store a fixed program->text mapping instead; both decoders convert that
// mapping into the list form so the rest of the code only sees one shape.
type EligibilityList []Eligibility

// KnownPrograms is the key order of the legacy mapping.
var KnownPrograms = []string{"BTech", "MBA", "MBBS", "BBA", "BCA", "MTech", "LLB", "BSc", "MSc", "BCom"}

func (l *EligibilityList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*l = nil
		return nil
	case bson.TypeArray:
		var items []Eligibility
		if err := raw.Unmarshal(&items); err != nil {
			return fmt.Errorf("eligibility_criteria: %w", err)
		}
		*l = items
		return nil
	case bson.TypeEmbeddedDocument:
		var legacy bson.D
		if err := raw.Unmarshal(&legacy); err != nil {
			return fmt.Errorf("eligibility_criteria: %w", err)
		}
		items := make([]Eligibility, 0, len(legacy))
		for _, e := range legacy {
			items = append(items, Eligibility{Name: e.Key, Required: textOf(e.Value)})
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("eligibility_criteria: unsupported bson type %s", t)
	}
}

func (l *EligibilityList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*l = nil
		return nil
	case trimmed[0] == '[':
		var items []Eligibility
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("eligibility_criteria: %w", err)
		}
		*l = items
		return nil
	case trimmed[0] == '{':
		var legacy map[string]any
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return fmt.Errorf("eligibility_criteria: %w", err)
		}
		*l = FromLegacy(legacy)
		return nil
	default:
		return fmt.Errorf("eligibility_criteria: expected list or object")
	}
}

// FromLegacy converts the program->text mapping into list form. Known
// programs come first in their historical order, then any other keys
// alphabetically.
func FromLegacy(legacy map[string]any) EligibilityList {
	if len(legacy) == 0 {
		return nil
	}
	out := make(EligibilityList, 0, len(legacy))
	seen := make(map[string]bool, len(KnownPrograms))
	for _, program := range KnownPrograms {
		seen[program] = true
		if v, ok := legacy[program]; ok {
			out = append(out, Eligibility{Name: program, Required: textOf(v)})
		}
	}

	var rest []string
	for k := range legacy {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, Eligibility{Name: k, Required: textOf(legacy[k])})
	}
	return out
}

func textOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// Package query builds the MongoDB filters behind the directory listing
// endpoints. Every user-supplied value is matched as a case-insensitive
// literal substring.
package query

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopListLimit caps the number of institutions returned by the top list.
const TopListLimit = 4

// Institution document paths used in filters.
const (
	FieldName        = "name"
	FieldType        = "type"
	FieldCity        = "location.city"
	FieldState       = "location.state"
	FieldCourseName  = "courses_offered.name"
	FieldFieldTaught = "field_taught"
	FieldRecruiters  = "top_recruiters"
	FieldExams       = "acceptance_exams"
	FieldScore       = "score"
)

var searchFields = []string{FieldName, FieldCity, FieldState, FieldCourseName}

var topListFields = []string{FieldName, FieldType, FieldRecruiters, FieldExams, FieldCity, FieldState, FieldCourseName}

// ListParams are the get-colleges query parameters.
type ListParams struct {
	Search   string
	Category string
	Branch   string
}

// Contains returns a case-insensitive regex matching term literally.
func Contains(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// ByScore is the listing order: score descending, _id as tie-breaker.
func ByScore() bson.D {
	return bson.D{{Key: FieldScore, Value: -1}, {Key: "_id", Value: 1}}
}

// Search matches term against the name, city, state and course names.
// A blank term yields nil: the caller skips the search step.
func Search(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	return anyOf(searchFields, term)
}

// CategoryBranch filters by course name (category) and taught field
// (branch). Blank parameters add no condition.
func CategoryBranch(category, branch string) bson.M {
	var clauses []bson.M
	if c := strings.TrimSpace(category); c != "" {
		clauses = append(clauses, bson.M{FieldCourseName: Contains(c)})
	}
	if b := strings.TrimSpace(branch); b != "" {
		clauses = append(clauses, bson.M{FieldFieldTaught: Contains(b)})
	}
	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// TopList matches q across the broad field set; without q it filters by
// course name only.
func TopList(q, course string) bson.M {
	if q = strings.TrimSpace(q); q != "" {
		return anyOf(topListFields, q)
	}
	if course = strings.TrimSpace(course); course != "" {
		return bson.M{FieldCourseName: Contains(course)}
	}
	return bson.M{}
}

// IDs matches any of the given identifiers.
func IDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

// NameKey is the form under which institution names are compared for
// duplicates: trimmed and lower-cased.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names matches documents whose name equals any of names, ignoring case.
func Names(names []string) bson.M {
	patterns := make([]primitive.Regex, 0, len(names))
	for _, n := range names {
		patterns = append(patterns, primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(n)) + "$", Options: "i"})
	}
	return bson.M{FieldName: bson.M{"$in": patterns}}
}

func anyOf(fields []string, term string) bson.M {
	re := Contains(term)
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return bson.M{"$or": or}
}

package query

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches evaluates a primitive.Regex the way the server would for the
// "i" option.
func matches(t *testing.T, re primitive.Regex, s string) bool {
	t.Helper()
	if re.Options != "i" {
		t.Fatalf("expected case-insensitive option, got %q", re.Options)
	}
	compiled, err := regexp.Compile("(?i)" + re.Pattern)
	if err != nil {
		t.Fatalf("pattern %q does not compile: %v", re.Pattern, err)
	}
	return compiled.MatchString(s)
}

func TestContainsIsCaseInsensitiveSubstring(t *testing.T) {
	if !matches(t, Contains("rv"), "RV College of Engineering") {
		t.Errorf("rv must match RV College of Engineering")
	}
	if !matches(t, Contains("engineer"), "RV College of Engineering") {
		t.Errorf("substring must match")
	}
	if matches(t, Contains("mba"), "RV College of Engineering") {
		t.Errorf("unrelated term must not match")
	}
}

func TestContainsEscapesMalformedPatterns(t *testing.T) {
	tests := []struct {
		term  string
		value string
	}{
		{"c++", "Advanced C++ Programming"},
		{"(unclosed", "Course (unclosed"},
		{"[", "bracket [ course"},
		{".*", "literal .* only"},
	}
	for _, tc := range tests {
		t.Run(tc.term, func(t *testing.T) {
			re := Contains(tc.term)
			if !matches(t, re, tc.value) {
				t.Errorf("%q must match %q literally", tc.term, tc.value)
			}
		})
	}
	if matches(t, Contains(".*"), "anything") {
		t.Errorf(".* must be literal, not a wildcard")
	}
}

func TestSearchFields(t *testing.T) {
	if Search("   ") != nil {
		t.Errorf("blank search must yield nil")
	}

	f := Search(" rv ")
	or, ok := f["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or clauses, got %#v", f)
	}
	want := []string{FieldName, FieldCity, FieldState, FieldCourseName}
	if len(or) != len(want) {
		t.Fatalf("expected %d clauses, got %d", len(want), len(or))
	}
	for i, field := range want {
		re, ok := or[i][field].(primitive.Regex)
		if !ok {
			t.Fatalf("clause %d: expected regex on %s, got %#v", i, field, or[i])
		}
		if re.Pattern != "rv" {
			t.Errorf("expected trimmed pattern, got %q", re.Pattern)
		}
	}
}

func TestCategoryBranch(t *testing.T) {
	if f := CategoryBranch("", " "); len(f) != 0 {
		t.Errorf("absent parameters must match everything, got %#v", f)
	}

	f := CategoryBranch("BTech", "")
	if _, ok := f[FieldCourseName].(primitive.Regex); !ok {
		t.Errorf("category must filter course names, got %#v", f)
	}

	f = CategoryBranch("", "engineering")
	if _, ok := f[FieldFieldTaught].(primitive.Regex); !ok {
		t.Errorf("branch must filter field_taught, got %#v", f)
	}

	f = CategoryBranch("BTech", "engineering")
	and, ok := f["$and"].([]bson.M)
	if !ok || len(and) != 2 {
		t.Fatalf("expected two $and clauses, got %#v", f)
	}
}

func TestTopList(t *testing.T) {
	f := TopList("TCS", "BTech")
	or, ok := f["$or"].([]bson.M)
	if !ok || len(or) != 7 {
		t.Fatalf("expected 7 $or clauses when query is set, got %#v", f)
	}
	if _, ok := or[2][FieldRecruiters]; !ok {
		t.Errorf("expected recruiters clause, got %#v", or[2])
	}

	f = TopList("", "mba")
	re, ok := f[FieldCourseName].(primitive.Regex)
	if !ok || re.Pattern != "mba" {
		t.Errorf("expected course filter, got %#v", f)
	}

	if f := TopList("", ""); len(f) != 0 {
		t.Errorf("expected match-all, got %#v", f)
	}
}

func TestByScoreAndIDs(t *testing.T) {
	sort := ByScore()
	if sort[0].Key != FieldScore || sort[0].Value != -1 {
		t.Errorf("expected score descending first, got %#v", sort)
	}

	id := primitive.NewObjectID()
	f := IDs([]primitive.ObjectID{id})
	in, ok := f["_id"].(bson.M)["$in"].([]primitive.ObjectID)
	if !ok || len(in) != 1 || in[0] != id {
		t.Errorf("unexpected ids filter %#v", f)
	}
}

func TestNamesIgnoresCase(t *testing.T) {
	f := Names([]string{" RV College (Main) "})
	in, ok := f[FieldName].(bson.M)["$in"].([]primitive.Regex)
	if !ok || len(in) != 1 {
		t.Fatalf("unexpected names filter %#v", f)
	}
	re := regexp.MustCompile("(?" + in[0].Options + ")" + in[0].Pattern)
	if !re.MatchString("rv college (main)") {
		t.Errorf("expected case-insensitive exact match, pattern %q", in[0].Pattern)
	}
	if re.MatchString("RV College (Main) Campus") {
		t.Errorf("name match must be anchored, pattern %q", in[0].Pattern)
	}
	if NameKey(" RV College ") != NameKey("rv college") {
		t.Error("NameKey should ignore case and surrounding space")
	}
}

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"collegedir/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("All fields are required."), http.StatusBadRequest},
		{apperr.NotFound("College not found."), http.StatusNotFound},
		{apperr.WrapStore(errors.New("x"), "Error saving response."), http.StatusInternalServerError},
		{apperr.WrapUnavailable(errors.New("x"), "Database unavailable."), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusFor(tc.err); got != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestRespondWithAppErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/get-colleges", nil)
	RespondWithAppError(rec, req, apperr.WrapStore(errors.New("auth failed for user admin"), ""), "Error fetching colleges.")

	body := rec.Body.String()
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if body != `{"success":false,"message":"Error fetching colleges."}` {
		t.Errorf("unexpected body %s", body)
	}
	if strings.Contains(body, "admin") {
		t.Error("cause leaked")
	}
}

func TestParseJSONKeepsNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":919845012345}`))
	var body map[string]any
	if err := ParseJSON(req, &body); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n, ok := body["phone"].(interface{ String() string }); !ok || n.String() != "919845012345" {
		t.Errorf("expected exact number, got %#v", body["phone"])
	}
}

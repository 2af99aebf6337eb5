package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"collegedir/apperr"
	"collegedir/forms"
	"collegedir/handlers"
	"collegedir/metrics"
	"collegedir/models"
	"collegedir/query"
)

type stubColleges struct{}

func (stubColleges) ListColleges(context.Context, query.ListParams) ([]models.Institution, error) {
	return []models.Institution{{Name: "RV College of Engineering"}}, nil
}

func (stubColleges) GetCollege(context.Context, string) (*models.Institution, error) {
	return nil, apperr.NotFound("College not found.")
}

func (stubColleges) TopList(context.Context, string, string) ([]models.Institution, error) {
	return nil, nil
}

func (stubColleges) Showcase(context.Context) ([]models.Institution, error) {
	return nil, nil
}

type recordingLeads struct{ forms []string }

func (r *recordingLeads) Submit(_ context.Context, formType string, _ map[string]any) (*models.Lead, error) {
	r.forms = append(r.forms, formType)
	return &models.Lead{Form: formType, Submitter: "A"}, nil
}

type stubStore struct{ err error }

func (s stubStore) EnsureHealthy(context.Context) error { return s.err }
func (s stubStore) Ping(context.Context) error          { return s.err }

func newTestRouter(t *testing.T, store stubStore, leads *recordingLeads) http.Handler {
	t.Helper()
	registry, err := forms.NewRegistry(forms.Defaults())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return NewRouter(Dependencies{
		Colleges:    handlers.NewCollegeHandler(stubColleges{}),
		Leads:       handlers.NewLeadHandler(leads),
		Health:      handlers.NewHealthHandler(store, "test"),
		Forms:       registry,
		Store:       store,
		CORSOrigins: []string{"*"},
	})
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFormRoutes(t *testing.T) {
	leads := &recordingLeads{}
	r := newTestRouter(t, stubStore{}, leads)

	paths := map[string]string{
		"/api/save-applied-college":      forms.AppliedCollege,
		"/api/submit-counseling-request": forms.CounselingRequest,
		"/api/save-response":             forms.Response,
		"/api/submit-contact-form":       forms.Contact,
	}
	for path, form := range paths {
		leads.forms = nil
		rec := serve(r, http.MethodPost, path, `{"name":"A"}`)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
			continue
		}
		if len(leads.forms) != 1 || leads.forms[0] != form {
			t.Errorf("%s: expected form %s, got %v", path, form, leads.forms)
		}
	}
}

func TestReadRoutes(t *testing.T) {
	r := newTestRouter(t, stubStore{}, &recordingLeads{})

	tests := []struct {
		target string
		code   int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/get-colleges?search=rv", http.StatusOK},
		{"/api/get-top-list?query=iit", http.StatusOK},
		{"/api/get-showcase?ignored=1", http.StatusOK},
		{"/api/get-college-info?id=000000000000000000000000", http.StatusNotFound},
	}
	for _, tc := range tests {
		if rec := serve(r, http.MethodGet, tc.target, ""); rec.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.target, tc.code, rec.Code)
		}
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := newTestRouter(t, stubStore{}, &recordingLeads{})

	rec := serve(r, http.MethodGet, "/api/does-not-exist", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("expected 404 envelope, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("fallback handlers should still get a request id")
	}

	rec = serve(r, http.MethodGet, "/api/submit-contact-form", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestStoreDownRejectsAPI(t *testing.T) {
	down := stubStore{err: apperr.WrapUnavailable(errors.New("no reachable servers"), "Database unavailable.")}
	leads := &recordingLeads{}
	r := newTestRouter(t, down, leads)

	if rec := serve(r, http.MethodGet, "/api/get-colleges", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodPost, "/api/submit-contact-form", `{"name":"A"}`); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if len(leads.forms) != 0 {
		t.Error("no lead should reach the service while the store is down")
	}
	if rec := serve(r, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Errorf("welcome route does not need the store, got %d", rec.Code)
	}
}

func TestPanicIsCountedAndEnveloped(t *testing.T) {
	h := newTestRouter(t, stubStore{}, &recordingLeads{})
	r := h.(*mux.Router)
	r.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("nil map")
	}).Methods(MethodsGetOnly...)

	counter := metrics.HTTPRequests.WithLabelValues("/boom", http.MethodGet, "500")
	before := testutil.ToFloat64(counter)

	rec := serve(r, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected 500 envelope, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("panicking request should still carry a request id")
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected the panic to be recorded as one 500, got %v", got)
	}
}

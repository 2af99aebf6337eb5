package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"collegedir/forms"
	"collegedir/handlers"
	"collegedir/middleware"
)

var (
	MethodsGetOnly  = []string{"GET", "OPTIONS"}
	MethodsPostOnly = []string{"POST", "OPTIONS"}
)

const (
	PathAPI     = "/api"
	PathHealth  = "/health"
	PathMetrics = "/metrics"
)

type Dependencies struct {
	Colleges    *handlers.CollegeHandler
	Leads       *handlers.LeadHandler
	Health      *handlers.HealthHandler
	Forms       *forms.Registry
	Store       middleware.HealthChecker
	CORSOrigins []string
}

// NewRouter builds the full route table with the global middleware chain.
func NewRouter(d Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = middlewareChain(d, handlers.NotFound)
	r.MethodNotAllowedHandler = middlewareChain(d, handlers.MethodNotAllowed)

	// Recovery is innermost so a panic still gets logged and counted.
	r.Use(middleware.RequestID)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.Metrics)
	r.Use(middleware.Cors(d.CORSOrigins))
	r.Use(middleware.RecoveryMiddleware)

	RegisterRoutes(r, d)
	return r
}

// middlewareChain wraps h in the global middleware; mux skips r.Use
// middleware for its not-found and method-not-allowed handlers.
func middlewareChain(d Dependencies, h http.HandlerFunc) http.Handler {
	var out http.Handler = h
	out = middleware.RecoveryMiddleware(out)
	out = middleware.Cors(d.CORSOrigins)(out)
	out = middleware.Metrics(out)
	out = middleware.LoggingMiddleware(out)
	return middleware.RequestID(out)
}

func RegisterRoutes(r *mux.Router, d Dependencies) {
	r.HandleFunc("/", handlers.Home).Methods(MethodsGetOnly...)
	r.HandleFunc(PathHealth, d.Health.HealthCheck).Methods(MethodsGetOnly...)
	r.Handle(PathMetrics, promhttp.Handler()).Methods(MethodsGetOnly...)

	api := r.PathPrefix(PathAPI).Subrouter()
	api.Use(middleware.StoreHealth(d.Store))

	api.HandleFunc("/get-colleges", d.Colleges.GetColleges).Methods(MethodsGetOnly...)
	api.HandleFunc("/get-college-info", d.Colleges.GetCollegeInfo).Methods(MethodsGetOnly...)
	api.HandleFunc("/get-top-list", d.Colleges.GetTopList).Methods(MethodsGetOnly...)
	api.HandleFunc("/get-showcase", d.Colleges.GetShowcase).Methods(MethodsGetOnly...)

	for _, f := range d.Forms.All() {
		api.HandleFunc(f.Path, d.Leads.Submit(f.Type)).Methods(MethodsPostOnly...)
	}

	_ = r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		t, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			log.Debug().Strs("methods", methods).Str("path", t).Msg("route registered")
		}
		return nil
	})
}

package rest

import (
	"dyslexiatutor/internal/observe"
	"dyslexiatutor/internal/service"
	"dyslexiatutor/internal/transport/rest/handler"
	"dyslexiatutor/internal/transport/rest/middleware"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	TutorService *service.TutorService

	// AudioDir is served under AudioURLPrefix when set.
	AudioDir       string
	AudioURLPrefix string
	CookieSecure   bool

	// Metrics instruments every request when set; MetricsHandler is
	// mounted at /metrics.
	Metrics        *observe.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	tutorHandler := handler.NewTutorHandler(c.TutorService)

	// Initialize middleware
	sessionMW := middleware.NewSessionMiddleware(c.AuthService, c.CookieSecure)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)
	if c.Metrics != nil {
		r.Use(observe.Middleware(c.Metrics))
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.MetricsHandler != nil {
		r.Handle("/metrics", c.MetricsHandler).Methods("GET")
	}

	// Synthesised speech
	if c.AudioDir != "" {
		prefix := strings.TrimSuffix(c.AudioURLPrefix, "/") + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(c.AudioDir)))).Methods("GET")
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Stateless
	v1.HandleFunc("/narrate", tutorHandler.Narrate).Methods("POST", "OPTIONS")

	// Session routes (cookie-identified)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(sessionMW.RequireSession)

	sessionRoutes.HandleFunc("/session", tutorHandler.Snapshot).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/session/landing", tutorHandler.Landing).Methods("GET", "POST", "OPTIONS")
	sessionRoutes.HandleFunc("/session/mode", tutorHandler.StartMode).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/session/turn", tutorHandler.SubmitTurn).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/session/finish", tutorHandler.Finish).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

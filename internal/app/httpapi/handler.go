// Package httpapi exposes the application services over REST.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	app "github.com/resolvedesk/resolvedesk/internal/app"
	authsvc "github.com/resolvedesk/resolvedesk/internal/app/services/auth"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/internal/metrics"
	"github.com/resolvedesk/resolvedesk/internal/middleware"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Options configures the HTTP surface.
type Options struct {
	// FrontendURL is the origin allowed to make credentialed CORS
	// requests. Empty allows any origin.
	FrontendURL string
	// BodyLimit caps request body size in bytes. Zero disables the cap.
	BodyLimit int64
	// UploadsDir is served read-only under /uploads/.
	UploadsDir string
	// StaticDir, when set, serves the frontend bundle with an SPA
	// fallback for unmatched non-API paths.
	StaticDir string

	JWTSecret          []byte
	RateLimitPerSecond int
	RateLimitBurst     int
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewRouter assembles the full middleware chain and route table.
func NewRouter(application *app.Application, opts Options, m *metrics.Metrics, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}

	router := mux.NewRouter()

	origins := []string{"*"}
	if opts.FrontendURL != "" {
		origins = []string{opts.FrontendURL}
	}
	cors := middleware.NewCORSMiddleware(origins)

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(cors.Handler)
	router.Use(middleware.LoggingMiddleware(log))
	if m != nil {
		router.Use(middleware.MetricsMiddleware(m))
	}
	if opts.BodyLimit > 0 {
		router.Use(bodyLimit(opts.BodyLimit))
	}
	if opts.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(opts.RateLimitPerSecond, opts.RateLimitBurst, log)
		limiter.StartCleanup(10 * time.Minute)
		router.Use(limiter.Handler)
	}

	if m != nil {
		router.Handle("/metrics", m.Handler())
	}
	if opts.UploadsDir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	api := router.PathPrefix("/api").Subrouter()
	authmw := middleware.NewAuthMiddleware(opts.JWTSecret, log, []string{
		"/api/health",
		"/api/auth/login",
		"/api/auth/register",
	}, nil)
	api.Use(authmw.Handler)

	api.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.currentUser).Methods(http.MethodGet)

	api.HandleFunc("/organizations", h.createOrganization).Methods(http.MethodPost)
	api.HandleFunc("/organizations", h.listOrganizations).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id}", h.getOrganization).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id}", h.updateOrganization).Methods(http.MethodPut)
	api.HandleFunc("/organizations/{id}", h.deleteOrganization).Methods(http.MethodDelete)

	api.HandleFunc("/departments", h.createDepartment).Methods(http.MethodPost)
	api.HandleFunc("/departments", h.listDepartments).Methods(http.MethodGet)
	api.HandleFunc("/departments/{id}", h.getDepartment).Methods(http.MethodGet)
	api.HandleFunc("/departments/{id}", h.updateDepartment).Methods(http.MethodPut)
	api.HandleFunc("/departments/{id}", h.deleteDepartment).Methods(http.MethodDelete)

	api.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)

	// Complaint type routes are registered ahead of the parameterised
	// complaint routes so /api/complaints/types never matches {id}.
	api.HandleFunc("/complaints/types", h.createComplaintType).Methods(http.MethodPost)
	api.HandleFunc("/complaints/types", h.listComplaintTypes).Methods(http.MethodGet)
	api.HandleFunc("/complaints/types/{id}", h.getComplaintType).Methods(http.MethodGet)
	api.HandleFunc("/complaints/types/{id}", h.updateComplaintType).Methods(http.MethodPut)
	api.HandleFunc("/complaints/types/{id}", h.deleteComplaintType).Methods(http.MethodDelete)

	api.HandleFunc("/complaints", h.createComplaint).Methods(http.MethodPost)
	api.HandleFunc("/complaints", h.listComplaints).Methods(http.MethodGet)
	api.HandleFunc("/complaints/{id}", h.getComplaint).Methods(http.MethodGet)
	api.HandleFunc("/complaints/{id}", h.updateComplaint).Methods(http.MethodPut)
	api.HandleFunc("/complaints/{id}", h.deleteComplaint).Methods(http.MethodDelete)
	api.HandleFunc("/complaints/{id}/workflow", h.getWorkflowForComplaint).Methods(http.MethodGet)
	api.HandleFunc("/complaints/{id}/feedback", h.getFeedbackForComplaint).Methods(http.MethodGet)

	api.HandleFunc("/workflows", h.createWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/workflows", h.listWorkflows).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}", h.getWorkflow).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}", h.updateWorkflow).Methods(http.MethodPut)
	api.HandleFunc("/workflows/{id}/advance", h.advanceWorkflow).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/stream", h.streamNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPut)

	api.HandleFunc("/feedback", h.createFeedback).Methods(http.MethodPost)
	api.HandleFunc("/feedback", h.listFeedback).Methods(http.MethodGet)
	api.HandleFunc("/feedback/{id}", h.getFeedback).Methods(http.MethodGet)

	// Unknown API paths answer JSON, not the SPA page.
	api.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})

	if opts.StaticDir != "" {
		router.PathPrefix("/").Handler(spaHandler{staticDir: opts.StaticDir})
	}

	return router
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// spaHandler serves files from staticDir and falls back to index.html for
// client-side routed paths.
type spaHandler struct {
	staticDir string
}

func (s spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requested := filepath.Join(s.staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func bodyLimit(limit int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// errStatus maps service errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

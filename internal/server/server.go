package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rosavera/centro/internal/auth"
	"github.com/rosavera/centro/internal/handler"
	"github.com/rosavera/centro/internal/middleware"
	"github.com/rosavera/centro/internal/store"
	ws "github.com/rosavera/centro/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	instanceH    *handler.InstanceHandler
	assignmentH  *handler.AssignmentHandler
	generateH    *handler.GenerateHandler
	bulkH        *handler.BulkHandler
	sourceH      *handler.SourceHandler
	volunteerH   *handler.VolunteerHandler
	authH        *handler.AuthHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, sessionTTL time.Duration, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	instanceStore := store.NewInstanceStore(db)
	sourceStore := store.NewSourceStore(db)
	volunteerStore := store.NewVolunteerStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		instanceH:    handler.NewInstanceHandler(instanceStore, volunteerStore, hub, logger.With("component", "calendar")),
		assignmentH:  handler.NewAssignmentHandler(instanceStore, volunteerStore, hub, logger.With("component", "assignment")),
		generateH:    handler.NewGenerateHandler(instanceStore, sourceStore, hub, logger.With("component", "generate")),
		bulkH:        handler.NewBulkHandler(instanceStore, hub, logger.With("component", "bulk")),
		sourceH:      handler.NewSourceHandler(sourceStore, logger.With("component", "source")),
		volunteerH:   handler.NewVolunteerHandler(volunteerStore, logger.With("component", "volunteer")),
		authH:        handler.NewAuthHandler(userStore, sessionStore, sessionTTL, logger.With("component", "auth")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	// Calendar instance API routes
	mux.HandleFunc("GET /api/calendar", s.instanceH.List)
	mux.Handle("POST /api/calendar", s.can(auth.PermCalendarCreate, s.instanceH.Create))
	mux.Handle("PUT /api/calendar/{id}", s.can(auth.PermCalendarEdit, s.instanceH.Update))
	mux.Handle("DELETE /api/calendar/{id}", s.can(auth.PermCalendarDelete, s.instanceH.Delete))

	// Role assignments
	mux.Handle("POST /api/calendar/assignment", s.can(auth.PermCalendarEdit, s.assignmentH.Set))
	mux.Handle("DELETE /api/calendar/assignment", s.can(auth.PermCalendarEdit, s.assignmentH.Remove))

	// Recurrence generation
	mux.Handle("POST /api/calendar/preview", s.can(auth.PermCalendarGenerate, s.generateH.Preview))
	mux.Handle("POST /api/calendar/generate", s.can(auth.PermCalendarGenerate, s.generateH.Generate))

	// Bulk operations
	mux.Handle("GET /api/calendar/bulk", s.can(auth.PermCalendarDelete, s.bulkH.Count))
	mux.Handle("DELETE /api/calendar/bulk", s.can(auth.PermCalendarDelete, s.bulkH.Delete))

	// Collaborator catalogues
	mux.HandleFunc("GET /api/sources", s.sourceH.List)
	mux.HandleFunc("GET /api/volunteers", s.volunteerH.List)

	// Real-time sync
	mux.Handle("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}

func (s *Server) can(perm string, h http.HandlerFunc) http.Handler {
	return middleware.RequirePermission(perm)(http.HandlerFunc(h))
}

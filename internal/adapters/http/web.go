package web

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/adapters/http/perf"
	accountStore "fitpro/internal/adapters/storage/account"
	attendanceStore "fitpro/internal/adapters/storage/attendance"
	classStore "fitpro/internal/adapters/storage/class"
	memberStore "fitpro/internal/adapters/storage/member"
	trainerStore "fitpro/internal/adapters/storage/trainer"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/config"
	"fitpro/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	MemberStore     memberStore.Store
	TrainerStore    trainerStore.Store
	ClassStore      classStore.Store
	AttendanceStore attendanceStore.Store
}

// Tokens issues and verifies bearer session tokens.
type Tokens interface {
	Issue(claims account.SessionClaims, ttl time.Duration) (string, error)
	Verify(token string) (account.SessionClaims, error)
}

// Deps is everything the HTTP layer needs, built once in cmd/server.
type Deps struct {
	Stores    Stores
	Tokens    Tokens
	Notifier  orchestrators.Notifier
	Config    config.Config
	Collector *perf.Collector
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// Server serves the FitPro JSON API.
type Server struct {
	stores    Stores
	tokens    Tokens
	notifier  orchestrators.Notifier
	cfg       config.Config
	collector *perf.Collector
	now       func() time.Time
	startedAt time.Time
}

// NewServer creates a Server.
// PRE: deps.Stores, deps.Tokens and deps.Notifier are set
func NewServer(deps Deps) *Server {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Server{
		stores:    deps.Stores,
		tokens:    deps.Tokens,
		notifier:  deps.Notifier,
		cfg:       deps.Config,
		collector: deps.Collector,
		now:       now,
		startedAt: time.Now(),
	}
}

// Handler returns the routed API wrapped in the middleware stack. The rate
// limiter's sweeper stops when ctx is cancelled.
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	csrfKey, err := loadCSRFKey(s.cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	rate := s.cfg.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	// Timing -> RateLimit -> SecurityHeaders -> CSRF -> Mux
	return middleware.Chain(mux,
		middleware.CSRF(csrfKey, s.cfg.TrustedOrigins, s.cfg.IsProduction()),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(s.collector, time.Duration(s.cfg.SlowRequestMs)*time.Millisecond),
	), nil
}

// loadCSRFKey returns the configured key or, outside production, a random one.
func loadCSRFKey(cfg config.Config) ([]byte, error) {
	if cfg.CSRFKey != nil {
		return cfg.CSRFKey, nil
	}
	if cfg.IsProduction() {
		return nil, fmt.Errorf("FITPRO_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("csrf_key_ephemeral", "hint", "set FITPRO_CSRF_KEY to keep form tokens valid across restarts")
	return key, nil
}

// auth guards h with bearer-token verification.
func (s *Server) auth(h http.HandlerFunc) http.Handler {
	return middleware.RequireBearer(s.tokens)(h)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", textHandler("Backend is ok!"))
	mux.HandleFunc("GET /health", textHandler("Backend is alive!"))
	mux.HandleFunc("GET /api", textHandler("FitPro Manager backend is working"))

	// Auth
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("GET /api/auth/verify", s.handleVerify)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/request-reset", s.handleRequestReset)
	mux.HandleFunc("GET /api/auth/confirm-reset/{token}", s.handleConfirmReset)
	mux.HandleFunc("GET /api/auth/is-verified", s.handleIsVerified)
	mux.Handle("PATCH /api/auth/update-username", s.auth(s.handleUpdateUsername))
	mux.Handle("PATCH /api/auth/change-password", s.auth(s.handleChangePassword))

	for _, resource := range []string{"auth", "members", "trainers", "classes", "attendance"} {
		mux.Handle("GET /api/"+resource+"/protected", s.auth(textHandler("This is a protected route.")))
	}

	// Members
	mux.Handle("POST /api/members", s.auth(s.handleCreateMember))
	mux.HandleFunc("GET /api/members", s.handleListMembers)
	mux.Handle("PATCH /api/members/{id}", s.auth(s.handleUpdateMember))
	mux.Handle("DELETE /api/members/{id}", s.auth(s.handleDeleteMember))
	mux.Handle("POST /api/members/import", s.auth(s.handleImportMembers))
	mux.Handle("GET /api/members/export", s.auth(s.handleExportMembers))

	// Trainers
	mux.Handle("POST /api/trainers", s.auth(s.handleCreateTrainer))
	mux.HandleFunc("GET /api/trainers", s.handleListTrainers)
	mux.Handle("PATCH /api/trainers/{id}", s.auth(s.handleUpdateTrainer))
	mux.Handle("DELETE /api/trainers/{id}", s.auth(s.handleDeleteTrainer))

	// Classes
	mux.Handle("POST /api/classes", s.auth(s.handleCreateClass))
	mux.HandleFunc("GET /api/classes", s.handleListClasses)
	mux.Handle("GET /api/classes/conflicts", s.auth(s.handleCheckConflict))
	mux.Handle("PATCH /api/classes/{id}", s.auth(s.handleUpdateClass))
	mux.Handle("DELETE /api/classes/{id}", s.auth(s.handleDeleteClass))

	// Attendance
	mux.Handle("POST /api/attendance", s.auth(s.handleCreateAttendance))
	mux.HandleFunc("GET /api/attendance", s.handleListAttendance)
	mux.Handle("GET /api/attendance/export", s.auth(s.handleExportAttendance))
	mux.Handle("PATCH /api/attendance/{id}", s.auth(s.handleUpdateAttendance))
	mux.Handle("DELETE /api/attendance/{id}", s.auth(s.handleDeleteAttendance))

	// Admin
	mux.Handle("GET /api/admin/perf", s.auth(s.handlePerf))
}

package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/domain/user"
	"github.com/rpggio/timebank/internal/observability"
)

// UserService reads and manages accounts.
type UserService interface {
	Get(ctx context.Context, id string) (*user.User, error)
	Update(ctx context.Context, req user.UpdateRequest) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService is the activity surface the API needs.
type ActivityService interface {
	Create(ctx context.Context, userID string, req activity.CreateRequest) (*activity.Activity, error)
	Get(ctx context.Context, userID, id string) (*activity.Activity, error)
	List(ctx context.Context, userID string) ([]activity.Activity, error)
	Update(ctx context.Context, userID string, req activity.UpdateRequest) (*activity.Activity, error)
	Delete(ctx context.Context, userID, id string) error
}

// StampService is the stamp surface the API needs.
type StampService interface {
	Create(ctx context.Context, userID string, req stamp.CreateRequest) (*stamp.Stamp, error)
	Get(ctx context.Context, userID, id string) (*stamp.Stamp, error)
	List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error)
	Update(ctx context.Context, userID string, req stamp.UpdateRequest) (*stamp.Stamp, error)
	Delete(ctx context.Context, userID, id string) error
}

// IntervalService derives intervals.
type IntervalService interface {
	List(ctx context.Context, userID string) ([]interval.Interval, error)
	Current(ctx context.Context, userID string) (*interval.Interval, error)
}

// DayService materializes days.
type DayService interface {
	List(ctx context.Context, userID string, opts day.ListOptions) ([]day.Day, error)
	Get(ctx context.Context, userID, dateKey string) (*day.Day, error)
}

// RegimeService is the regime surface the API needs.
type RegimeService interface {
	Create(ctx context.Context, userID string, req regime.CreateRequest) (*regime.Regime, error)
	Get(ctx context.Context, userID, id string) (*regime.Regime, error)
	List(ctx context.Context, userID string) ([]regime.Regime, error)
	Update(ctx context.Context, userID string, req regime.UpdateRequest) (*regime.Regime, error)
	Delete(ctx context.Context, userID, id string) error
	Preview(ctx context.Context, userID string, intervals []regime.Interval) (regime.ValidationResult, regime.Metrics, error)
}

// JournalService lists recent changes.
type JournalService interface {
	Recent(ctx context.Context, userID string, opts journal.ListOptions) ([]journal.Entry, error)
}

// Services bundles the domain services behind the API.
type Services struct {
	Users      UserService
	Activities ActivityService
	Stamps     StampService
	Intervals  IntervalService
	Days       DayService
	Regimes    RegimeService
	Journal    JournalService
}

// Config configures the HTTP router.
type Config struct {
	Services Services
	// Auth resolves the calling user for /api routes.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set. It handles its own authentication.
	MCP http.Handler
	// Metrics wraps every route and serves /metrics; nil disables both.
	Metrics *observability.Metrics
	// RateLimit bounds /api calls per user; nil disables it.
	RateLimit *RateLimit
	Logger    *slog.Logger
}

// Server holds the API handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	srv := &Server{svc: cfg.Services, logger: cfg.Logger}

	r.Get("/health", srv.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		r.Use(requireUser)
		if cfg.RateLimit != nil {
			r.Use(NewRateLimiter(*cfg.RateLimit).Middleware)
		}

		r.Get("/me", srv.getMe)
		r.Patch("/me", srv.updateMe)
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", srv.listActivities)
			r.Post("/", srv.createActivity)
			r.Get("/{id}", srv.getActivity)
			r.Patch("/{id}", srv.updateActivity)
			r.Delete("/{id}", srv.deleteActivity)
		})
		r.Route("/stamps", func(r chi.Router) {
			r.Get("/", srv.listStamps)
			r.Post("/", srv.createStamp)
			r.Get("/current", srv.currentStamp)
			r.Get("/{id}", srv.getStamp)
			r.Patch("/{id}", srv.updateStamp)
			r.Delete("/{id}", srv.deleteStamp)
		})
		r.Get("/intervals", srv.listIntervals)
		r.Get("/days", srv.listDays)
		r.Get("/days/{date}", srv.getDay)
		r.Route("/regimes", func(r chi.Router) {
			r.Get("/", srv.listRegimes)
			r.Post("/", srv.createRegime)
			r.Post("/validate", srv.validateRegime)
			r.Get("/{id}", srv.getRegime)
			r.Patch("/{id}", srv.updateRegime)
			r.Delete("/{id}", srv.deleteRegime)
		})
		r.Get("/journal", srv.listJournal)
		r.Route("/admin", func(r chi.Router) {
			r.Use(srv.requireAdmin)
			r.Get("/users", srv.listUsers)
			r.Get("/users/{id}", srv.getUser)
			r.Patch("/users/{id}", srv.updateUser)
			r.Delete("/users/{id}", srv.deleteUser)
			r.Get("/users/{id}/activities", srv.listUserActivities)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	id, _ := UserFromContext(r.Context())
	return id
}

package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Create(ctx context.Context, userID string, req activity.CreateRequest) (*activity.Activity, error)
	List(ctx context.Context, userID string) ([]activity.Activity, error)
}

// StampService defines stamp operations needed by MCP.
type StampService interface {
	Start(ctx context.Context, userID, activityID string) (*stamp.Stamp, error)
	Stop(ctx context.Context, userID string) (*stamp.Stamp, error)
	List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error)
}

// IntervalService defines interval derivation needed by MCP.
type IntervalService interface {
	List(ctx context.Context, userID string) ([]interval.Interval, error)
	Current(ctx context.Context, userID string) (*interval.Interval, error)
}

// DayService defines day materialization needed by MCP.
type DayService interface {
	List(ctx context.Context, userID string, opts day.ListOptions) ([]day.Day, error)
}

// RegimeService defines regime operations needed by MCP.
type RegimeService interface {
	Create(ctx context.Context, userID string, req regime.CreateRequest) (*regime.Regime, error)
	Update(ctx context.Context, userID string, req regime.UpdateRequest) (*regime.Regime, error)
	List(ctx context.Context, userID string) ([]regime.Regime, error)
	Preview(ctx context.Context, userID string, intervals []regime.Interval) (regime.ValidationResult, regime.Metrics, error)
}

// JournalService defines journal reads needed by MCP.
type JournalService interface {
	Recent(ctx context.Context, userID string, opts journal.ListOptions) ([]journal.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Activities ActivityService
	Stamps     StampService
	Intervals  IntervalService
	Days       DayService
	Regimes    RegimeService
	Journal    JournalService
}

// Config contains server configuration.
type Config struct {
	Services    Services
	Resolver    UserResolver
	AuthEnabled bool
	// TransportMode is "stdio" or "http". Stdio never authenticates.
	TransportMode string
	// DefaultUserID owns every call when authentication is off.
	DefaultUserID string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timebank",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Each call wraps the handler built so far: call logging runs innermost,
	// after the user middleware has resolved the caller.
	server.AddReceivingMiddleware(callLoggingMiddleware(cfg.Logger))
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(defaultUserMiddleware(cfg.DefaultUserID))
	}

	registerTools(server, cfg.Services)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}

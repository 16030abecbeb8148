package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timebank/internal/config"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/domain/user"
	"github.com/rpggio/timebank/internal/mcp"
	"github.com/rpggio/timebank/internal/observability"
	"github.com/rpggio/timebank/internal/sqlite"
	"github.com/rpggio/timebank/internal/transport"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog := logOutput(cfg)
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
}

// logOutput picks where logs go. Stdio mode keeps stdout for JSON-RPC, and a
// configured path gets a size-rotated file.
func logOutput(cfg config.Config) (io.Writer, func()) {
	if cfg.Log.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Log.Path,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		return file, func() { _ = file.Close() }
	}
	if cfg.Transport.Mode == "stdio" {
		return os.Stderr, func() {}
	}
	return os.Stdout, func() {}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	userRepo := sqlite.NewUserRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	stampRepo := sqlite.NewStampRepository(db)
	regimeRepo := sqlite.NewRegimeRepository(db)
	journalRepo := sqlite.NewJournalRepository(db)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	userSvc := user.NewService(userRepo, cfg.Accounting.DefaultTimezone, logger)
	activitySvc := activity.NewService(activityRepo, journalRepo, logger)
	stampSvc := stamp.NewService(stampRepo, activityRepo, journalRepo, logger)
	intervalSvc := interval.NewService(stampSvc, activitySvc, metrics, logger)
	daySvc := day.NewService(intervalSvc, userSvc, metrics, cfg.Accounting.MaxRangeDays, logger)
	regimeSvc := regime.NewService(regimeRepo, activitySvc, journalRepo, logger)
	journalSvc := journal.NewService(journalRepo, logger)

	// The bootstrap account administers the others.
	owner, err := userSvc.Ensure(ctx, user.CreateRequest{Username: cfg.Auth.DefaultUser, Role: user.RoleAdmin})
	if err != nil {
		return fmt.Errorf("preparing default user: %w", err)
	}
	if cfg.Auth.BootstrapToken != "" {
		if err := apiKeys.Create(ctx, owner.ID, cfg.Auth.BootstrapToken, "bootstrap"); err != nil {
			return fmt.Errorf("registering api key: %w", err)
		}
	} else if cfg.Auth.Enabled {
		logger.Warn("auth enabled without a bootstrap token; only existing api keys are accepted")
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Activities: activitySvc,
			Stamps:     stampSvc,
			Intervals:  intervalSvc,
			Days:       daySvc,
			Regimes:    regimeSvc,
			Journal:    journalSvc,
		},
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultUserID: owner.ID,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		logger.Info("serving mcp on stdio", "user", owner.Username)
		// Run returns when stdin closes or ctx is canceled.
		if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return fmt.Errorf("stdio transport: %w", err)
		}
		return nil
	}

	auth := transport.StaticUserMiddleware(owner.ID)
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(apiKeys)
	}
	var limit *transport.RateLimit
	if cfg.Server.RequestsPerMinute > 0 {
		limit = &transport.RateLimit{RequestsPerMinute: cfg.Server.RequestsPerMinute, Burst: cfg.Server.Burst}
	}
	router := transport.NewServer(transport.Config{
		Services: transport.Services{
			Users:      userSvc,
			Activities: activitySvc,
			Stamps:     stampSvc,
			Intervals:  intervalSvc,
			Days:       daySvc,
			Regimes:    regimeSvc,
			Journal:    journalSvc,
		},
		Auth:      auth,
		MCP:       mcp.NewHTTPHandler(mcpServer),
		Metrics:   metrics,
		RateLimit: limit,
		Logger:    logger,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("serving http", "addr", listener.Addr().String(), "auth", cfg.Auth.Enabled, "metrics", cfg.Metrics.Enabled)
	return serveHTTP(ctx, logger, listener, router)
}

// serveHTTP serves handler on listener until ctx is canceled, then drains
// in-flight requests for up to shutdownTimeout.
func serveHTTP(ctx context.Context, logger *slog.Logger, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	served := make(chan error, 1)
	go func() { served <- srv.Serve(listener) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

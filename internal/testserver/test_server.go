// Package testserver runs the full HTTP stack against an in-memory database
// for integration tests.
package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

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
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Token   string
	UserID  string
	Users   *user.Service
	APIKeys *sqlite.APIKeyRepository
	Metrics *observability.Metrics
}

// New starts a server whose API key token belongs to a fresh user in
// timezone tz.
func New(t *testing.T, token, tz string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	userRepo := sqlite.NewUserRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	stampRepo := sqlite.NewStampRepository(db)
	regimeRepo := sqlite.NewRegimeRepository(db)
	journalRepo := sqlite.NewJournalRepository(db)

	metrics := observability.NewMetrics()

	userSvc := user.NewService(userRepo, "UTC", nil)
	activitySvc := activity.NewService(activityRepo, journalRepo, nil)
	stampSvc := stamp.NewService(stampRepo, activityRepo, journalRepo, nil)
	intervalSvc := interval.NewService(stampSvc, activitySvc, metrics, nil)
	daySvc := day.NewService(intervalSvc, userSvc, metrics, 366, nil)
	regimeSvc := regime.NewService(regimeRepo, activitySvc, journalRepo, nil)
	journalSvc := journal.NewService(journalRepo, nil)

	u, err := userSvc.Create(context.Background(), user.CreateRequest{Username: "tester", Timezone: tz})
	require.NoError(t, err)
	require.NoError(t, apiKeys.Create(context.Background(), u.ID, token, "test"))

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
		AuthEnabled:   true,
		TransportMode: "http",
	})

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
		Auth:    transport.AuthMiddleware(apiKeys),
		MCP:     mcp.NewHTTPHandler(mcpServer),
		Metrics: metrics,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:  server,
		DB:      db,
		Token:   token,
		UserID:  u.ID,
		Users:   userSvc,
		APIKeys: apiKeys,
		Metrics: metrics,
	}
}

// AddUser creates another account reachable with token and returns its ID.
func (ts *TestServer) AddUser(t *testing.T, username string, role user.Role, token string) string {
	t.Helper()
	ctx := context.Background()
	u, err := ts.Users.Create(ctx, user.CreateRequest{Username: username, Role: role})
	require.NoError(t, err)
	require.NoError(t, ts.APIKeys.Create(ctx, u.ID, token, "test"))
	return u.ID
}

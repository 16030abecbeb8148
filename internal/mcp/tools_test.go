package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/interval"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/stretchr/testify/require"
)

type activityStub struct {
	createFn func(context.Context, string, activity.CreateRequest) (*activity.Activity, error)
	listFn   func(context.Context, string) ([]activity.Activity, error)
}

func (a activityStub) Create(ctx context.Context, userID string, req activity.CreateRequest) (*activity.Activity, error) {
	return a.createFn(ctx, userID, req)
}
func (a activityStub) List(ctx context.Context, userID string) ([]activity.Activity, error) {
	return a.listFn(ctx, userID)
}

type stampStub struct {
	startFn func(context.Context, string, string) (*stamp.Stamp, error)
	stopFn  func(context.Context, string) (*stamp.Stamp, error)
	listFn  func(context.Context, string, stamp.ListOptions) ([]stamp.Stamp, error)
}

func (s stampStub) Start(ctx context.Context, userID, activityID string) (*stamp.Stamp, error) {
	return s.startFn(ctx, userID, activityID)
}
func (s stampStub) Stop(ctx context.Context, userID string) (*stamp.Stamp, error) {
	return s.stopFn(ctx, userID)
}
func (s stampStub) List(ctx context.Context, userID string, opts stamp.ListOptions) ([]stamp.Stamp, error) {
	return s.listFn(ctx, userID, opts)
}

type intervalStub struct {
	listFn    func(context.Context, string) ([]interval.Interval, error)
	currentFn func(context.Context, string) (*interval.Interval, error)
}

func (i intervalStub) List(ctx context.Context, userID string) ([]interval.Interval, error) {
	return i.listFn(ctx, userID)
}
func (i intervalStub) Current(ctx context.Context, userID string) (*interval.Interval, error) {
	return i.currentFn(ctx, userID)
}

type dayStub struct {
	listFn func(context.Context, string, day.ListOptions) ([]day.Day, error)
}

func (d dayStub) List(ctx context.Context, userID string, opts day.ListOptions) ([]day.Day, error) {
	return d.listFn(ctx, userID, opts)
}

type regimeStub struct {
	createFn  func(context.Context, string, regime.CreateRequest) (*regime.Regime, error)
	updateFn  func(context.Context, string, regime.UpdateRequest) (*regime.Regime, error)
	listFn    func(context.Context, string) ([]regime.Regime, error)
	previewFn func(context.Context, string, []regime.Interval) (regime.ValidationResult, regime.Metrics, error)
}

func (r regimeStub) Create(ctx context.Context, userID string, req regime.CreateRequest) (*regime.Regime, error) {
	return r.createFn(ctx, userID, req)
}
func (r regimeStub) Update(ctx context.Context, userID string, req regime.UpdateRequest) (*regime.Regime, error) {
	return r.updateFn(ctx, userID, req)
}
func (r regimeStub) List(ctx context.Context, userID string) ([]regime.Regime, error) {
	return r.listFn(ctx, userID)
}
func (r regimeStub) Preview(ctx context.Context, userID string, intervals []regime.Interval) (regime.ValidationResult, regime.Metrics, error) {
	return r.previewFn(ctx, userID, intervals)
}

type journalStub struct {
	recentFn func(context.Context, string, journal.ListOptions) ([]journal.Entry, error)
}

func (j journalStub) Recent(ctx context.Context, userID string, opts journal.ListOptions) ([]journal.Entry, error) {
	return j.recentFn(ctx, userID, opts)
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListActivitiesUsesDefaultUser(t *testing.T) {
	var gotUser string
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Activities: activityStub{
			listFn: func(_ context.Context, userID string) ([]activity.Activity, error) {
				gotUser = userID
				return []activity.Activity{{ID: "a1", Name: "Reading", PointsPerHour: 10}}, nil
			},
		}},
	})

	res := callTool(t, session, "list_activities", map[string]any{})
	require.False(t, res.IsError)
	require.Equal(t, "user-1", gotUser)

	var out ActivitiesResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.Len(t, out.Activities, 1)
	require.Equal(t, "Reading", out.Activities[0].Name)
}

func TestStartActivityMapsUnknownActivity(t *testing.T) {
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Stamps: stampStub{
			startFn: func(context.Context, string, string) (*stamp.Stamp, error) {
				return nil, stamp.ErrUnknownActivity
			},
		}},
	})

	res := callTool(t, session, "start_activity", map[string]any{"activity_id": "missing"})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "UNKNOWN_ACTIVITY")
}

func TestSaveRegimeCreatesOrUpdates(t *testing.T) {
	var created regime.CreateRequest
	var updated regime.UpdateRequest
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Regimes: regimeStub{
			createFn: func(_ context.Context, _ string, req regime.CreateRequest) (*regime.Regime, error) {
				created = req
				return &regime.Regime{ID: "r1", Name: req.Name}, nil
			},
			updateFn: func(_ context.Context, _ string, req regime.UpdateRequest) (*regime.Regime, error) {
				updated = req
				return &regime.Regime{ID: req.ID, Name: *req.Name}, nil
			},
		}},
	})

	intervals := []any{map[string]any{"activity_id": "a1", "start_time": "09:00", "end_time": "10:00"}}
	res := callTool(t, session, "save_regime", map[string]any{"name": "Weekday", "intervals": intervals})
	require.False(t, res.IsError)
	require.Equal(t, "Weekday", created.Name)
	require.Len(t, created.Intervals, 1)
	require.Equal(t, "09:00", created.Intervals[0].StartTime)

	res = callTool(t, session, "save_regime", map[string]any{"id": "r1", "name": "Weekend", "intervals": intervals})
	require.False(t, res.IsError)
	require.Equal(t, "r1", updated.ID)
	require.NotNil(t, updated.Intervals)
	require.Len(t, *updated.Intervals, 1)
}

func TestValidateRegimeReturnsStructuredResult(t *testing.T) {
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Regimes: regimeStub{
			previewFn: func(_ context.Context, _ string, intervals []regime.Interval) (regime.ValidationResult, regime.Metrics, error) {
				return regime.ValidateIntervals(intervals), regime.Metrics{}, nil
			},
		}},
	})

	res := callTool(t, session, "validate_regime", map[string]any{"intervals": []any{
		map[string]any{"activity_id": "a1", "start_time": "09:00", "end_time": "11:00"},
		map[string]any{"activity_id": "a2", "start_time": "10:00", "end_time": "12:00"},
	}})
	require.False(t, res.IsError)

	var out ValidateRegimeResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.False(t, out.Valid)
	require.Contains(t, out.Error, "overlap")
}

func TestListDaysPassesRange(t *testing.T) {
	var got day.ListOptions
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Days: dayStub{
			listFn: func(_ context.Context, _ string, opts day.ListOptions) ([]day.Day, error) {
				got = opts
				return nil, day.ErrInvalidRange
			},
		}},
	})

	res := callTool(t, session, "list_days", map[string]any{"from": "2024-03-02", "to": "2024-03-01", "fill": true})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "INVALID_RANGE")
	require.Equal(t, day.ListOptions{From: "2024-03-02", To: "2024-03-01", Fill: true}, got)
}

func TestListStampsRejectsBadTime(t *testing.T) {
	session := connect(t, Config{
		TransportMode: "stdio",
		DefaultUserID: "user-1",
		Services: Services{Stamps: stampStub{
			listFn: func(_ context.Context, _ string, opts stamp.ListOptions) ([]stamp.Stamp, error) {
				require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), opts.Since.UTC())
				return []stamp.Stamp{}, nil
			},
		}},
	})

	res := callTool(t, session, "list_stamps", map[string]any{"since": "yesterday"})
	require.True(t, res.IsError)

	res = callTool(t, session, "list_stamps", map[string]any{"since": "2024-03-01T00:00:00Z"})
	require.False(t, res.IsError)
}

type staticResolver map[string]string

func (r staticResolver) ResolveUser(_ context.Context, token string) (string, error) {
	return r[token], nil
}

func TestAuthRequiredOverHTTPMode(t *testing.T) {
	session := connect(t, Config{
		TransportMode: "http",
		AuthEnabled:   true,
		Resolver:      staticResolver{"token": "user-1"},
		Services: Services{Activities: activityStub{
			listFn: func(context.Context, string) ([]activity.Activity, error) {
				return nil, nil
			},
		}},
	})

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_activities", Arguments: map[string]any{}})
	require.Error(t, err)
}

func TestDocResources(t *testing.T) {
	session := connect(t, Config{TransportMode: "stdio", DefaultUserID: "user-1"})

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "timebank://docs/accounting"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "seconds_free")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Equal(t, "ACTIVITY_NOT_FOUND", MapError(activity.ErrActivityNotFound).Code)
	require.Equal(t, "INVALID_REGIME", MapError(regime.ErrValidation).Code)
	require.ErrorIs(t, MapError(regime.ErrValidation), regime.ErrValidation)
	require.Nil(t, MapError(context.Canceled))
}

package testserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timebank/internal/testserver"
	"github.com/stretchr/testify/require"
)

type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(req)
}

func connect(t *testing.T, ts *testserver.TestServer, token string) *sdkmcp.ClientSession {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "functional", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, next: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text := res.Content[0].(*sdkmcp.TextContent).Text
	require.False(t, res.IsError, text)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text), out))
	}
}

func TestMCPOverHTTP_TrackAndReview(t *testing.T) {
	ts := testserver.New(t, "secret", "UTC")
	session := connect(t, ts, ts.Token)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.Subset(t, names, []string{
		"list_activities", "create_activity", "start_activity", "stop_activity",
		"list_stamps", "list_intervals", "list_days", "list_regimes",
		"save_regime", "validate_regime", "get_recent_changes",
	})

	var act struct {
		ID string `json:"id"`
	}
	call(t, session, "create_activity", map[string]any{"name": "Reading", "points_per_hour": 12}, &act)
	require.NotEmpty(t, act.ID)

	call(t, session, "start_activity", map[string]any{"activity_id": act.ID}, nil)

	var current struct {
		Current *struct {
			ToDate   *string `json:"to_date"`
			Activity struct {
				ID string `json:"id"`
			} `json:"activity"`
		} `json:"current"`
	}
	call(t, session, "get_current_activity", map[string]any{}, &current)
	require.NotNil(t, current.Current)
	require.Nil(t, current.Current.ToDate)
	require.Equal(t, act.ID, current.Current.Activity.ID)

	var stamps struct {
		Stamps []struct {
			Kind string `json:"type"`
		} `json:"stamps"`
	}
	call(t, session, "list_stamps", map[string]any{}, &stamps)
	require.Len(t, stamps.Stamps, 1)
	require.Equal(t, "start", stamps.Stamps[0].Kind)

	var changes struct {
		Entries []struct {
			Kind string `json:"kind"`
		} `json:"entries"`
	}
	call(t, session, "get_recent_changes", map[string]any{}, &changes)
	require.Len(t, changes.Entries, 2)

	var reg struct {
		TotalDurationMs int64   `json:"total_duration_ms"`
		TotalPoints     float64 `json:"total_points"`
	}
	call(t, session, "save_regime", map[string]any{
		"name": "Evening",
		"intervals": []any{
			map[string]any{"activity_id": act.ID, "start_time": "20:00", "end_time": "21:30"},
		},
	}, &reg)
	require.Equal(t, int64(90*60*1000), reg.TotalDurationMs)
	require.InDelta(t, 18.0, reg.TotalPoints, 1e-9)
}

func TestMCPOverHTTP_RejectsUnknownToken(t *testing.T) {
	ts := testserver.New(t, "secret", "UTC")
	session := connect(t, ts, "wrong")

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_activities",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
}

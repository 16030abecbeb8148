package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	// Activities
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activities",
		Description: "List the user's activities with their point rates",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		acts, err := svc.Activities.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ActivitiesResponse{Activities: acts}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_activity",
		Description: "Create an activity that time can be tracked against",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateActivityParams) (*sdkmcp.CallToolResult, any, error) {
		act, err := svc.Activities.Create(ctx, getUserID(ctx), activity.CreateRequest{
			Name:          in.Name,
			Color:         in.Color,
			Icon:          in.Icon,
			PointsPerHour: in.PointsPerHour,
			SecondsFree:   in.SecondsFree,
		})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, act, nil
	})

	// Stamps
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_activity",
		Description: "Start tracking an activity now; whatever was running stops",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartActivityParams) (*sdkmcp.CallToolResult, any, error) {
		st, err := svc.Stamps.Start(ctx, getUserID(ctx), in.ActivityID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, st, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_activity",
		Description: "Stop tracking whatever activity is running",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		st, err := svc.Stamps.Stop(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, st, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_current_activity",
		Description: "Get the interval that is currently running, if any",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		cur, err := svc.Intervals.Current(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, CurrentResponse{Current: cur}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_stamps",
		Description: "List raw start/stop stamps, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListStampsParams) (*sdkmcp.CallToolResult, any, error) {
		opts := stamp.ListOptions{Limit: in.Limit, Offset: in.Offset}
		var err error
		if opts.Since, err = parseOptionalTime("since", in.Since); err != nil {
			return nil, nil, err
		}
		if opts.Until, err = parseOptionalTime("until", in.Until); err != nil {
			return nil, nil, err
		}
		stamps, err := svc.Stamps.List(ctx, getUserID(ctx), opts)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, StampsResponse{Stamps: stamps}, nil
	})

	// Accounting
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_intervals",
		Description: "Derive continuous activity intervals from the stamp log, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		intervals, err := svc.Intervals.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, IntervalsResponse{Intervals: intervals}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_days",
		Description: "Materialize per-day fragments, activity totals and points for a local date range",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListDaysParams) (*sdkmcp.CallToolResult, any, error) {
		days, err := svc.Days.List(ctx, getUserID(ctx), day.ListOptions{From: in.From, To: in.To, Fill: in.Fill})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, DaysResponse{Days: days}, nil
	})

	// Regimes
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_regimes",
		Description: "List saved daily regimes with their planned totals",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		regimes, err := svc.Regimes.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, RegimesResponse{Regimes: regimes}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_regime",
		Description: "Create a regime, or replace an existing one when id is given",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveRegimeParams) (*sdkmcp.CallToolResult, any, error) {
		userID := getUserID(ctx)
		intervals := toRegimeIntervals(in.Intervals)
		var (
			reg *regime.Regime
			err error
		)
		if in.ID == "" {
			reg, err = svc.Regimes.Create(ctx, userID, regime.CreateRequest{
				Name:      in.Name,
				Icon:      in.Icon,
				IsHoliday: in.IsHoliday,
				Intervals: intervals,
			})
		} else {
			reg, err = svc.Regimes.Update(ctx, userID, regime.UpdateRequest{
				ID:        in.ID,
				Name:      &in.Name,
				Icon:      &in.Icon,
				IsHoliday: &in.IsHoliday,
				Intervals: &intervals,
			})
		}
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, reg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "validate_regime",
		Description: "Check regime intervals for format and overlap errors and preview their totals without saving",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ValidateRegimeParams) (*sdkmcp.CallToolResult, any, error) {
		res, metrics, err := svc.Regimes.Preview(ctx, getUserID(ctx), toRegimeIntervals(in.Intervals))
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, ValidateRegimeResponse{
			Valid:           res.Valid,
			Error:           res.Error,
			TotalPoints:     metrics.TotalPoints,
			TotalDurationMs: metrics.TotalDurationMs,
			ActivityTotals:  metrics.ActivityTotals,
		}, nil
	})

	// Journal
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_changes",
		Description: "List recent changes to activities, stamps and regimes",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentChangesParams) (*sdkmcp.CallToolResult, any, error) {
		entries, err := svc.Journal.Recent(ctx, getUserID(ctx), journal.ListOptions{
			Entity: in.Entity,
			Limit:  in.Limit,
		})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return nil, JournalResponse{Entries: entries}, nil
	})
}

func parseOptionalTime(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be RFC3339: %w", name, err)
	}
	return t, nil
}

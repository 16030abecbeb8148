package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timebank tracks where a user's time goes and scores it in points.

Core concepts:
- Activity: something time is spent on, with points_per_hour and seconds_free.
- Stamp: a start (with activity_id) or stop marker at a second-precision instant. Stamps are the only stored history.
- Interval: a continuous span derived from stamps on every read; never stored.
- Day: one local calendar date in the user's timezone, with fragments, per-activity totals and points.
- Regime: a planned day of HH:mm slots, validated and scored with the same formula as real days.

Workflow:
1) list_activities (create_activity if needed).
2) start_activity / stop_activity to record time; get_current_activity shows what is running.
3) list_intervals or list_days to review; list_days takes local YYYY-MM-DD bounds.
4) validate_regime before save_regime to check a plan and preview its points.

Docs:
- timebank://docs/accounting (how intervals, days and points are computed)
- timebank://docs/regimes (regime format and rules)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timebank://docs/accounting",
		Name:        "docs_accounting",
		Title:       "Accounting model",
		Description: "How stamps become intervals, days and points.",
		Content: `# Accounting model

## Points

    billable = max(0, duration_seconds - seconds_free)
    points   = billable / 3600 * points_per_hour

seconds_free applies once per aggregate: once per activity per day, or once
per activity per regime. It is not applied per interval.

## Intervals

Stamps are sorted by time. Each start opens an interval that ends one second
before the next stamp of a different activity (or a stop).

- A later start of the same activity does not split the interval.
- A different stamp less than 5 seconds after a start cancels that start.
- A start with no later stamp is ongoing; its duration grows until stamped.
- Starts of deleted activities are ignored.

## Days

Intervals are cut at local midnight in the user's timezone. Each day lists its
fragments, per-activity totals and total points. Days run 23 or 25 hours on
DST transitions. Ongoing intervals count up to now.

list_days only returns days with tracked time unless fill is set.
`,
	},
	{
		URI:         "timebank://docs/regimes",
		Name:        "docs_regimes",
		Title:       "Regimes",
		Description: "Format and validation rules for planned days.",
		Content: `# Regimes

A regime is a list of intervals, each with activity_id, start_time and
end_time in 24-hour HH:mm.

- end_time at or before start_time wraps past midnight (22:00-02:00 is 4h).
- Intervals are checked in start_time order; one that ends after the next
  begins is an overlap and the regime is rejected.
- Holiday regimes carry no intervals and score zero.

validate_regime returns {valid, error} plus the totals the regime would have.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const methodCallTool = "tools/call"

// callLoggingMiddleware logs one line per tool call with the tool, the
// calling user and the outcome. Other methods are logged at debug level.
// It must sit inside the user middleware so the user is already resolved.
func callLoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}

			started := time.Now()
			result, err := next(ctx, method, req)
			attrs := []any{
				"method", method,
				"user", getUserID(ctx),
				"duration_ms", time.Since(started).Milliseconds(),
			}

			if method != methodCallTool {
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.Debug("mcp request", attrs...)
				return result, err
			}

			attrs = append(attrs, "tool", toolName(req))
			switch {
			case err != nil:
				logger.Warn("mcp tool call failed", append(attrs, "error", err)...)
			case toolFailed(result):
				logger.Info("mcp tool call", append(attrs, "outcome", "error", "error", toolErrorText(result))...)
			default:
				logger.Info("mcp tool call", append(attrs, "outcome", "ok")...)
			}
			return result, err
		}
	}
}

func toolName(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	if p, ok := req.GetParams().(*sdkmcp.CallToolParamsRaw); ok && p != nil {
		return p.Name
	}
	return ""
}

func toolFailed(result sdkmcp.Result) bool {
	res, ok := result.(*sdkmcp.CallToolResult)
	return ok && res != nil && res.IsError
}

// toolErrorText is the error message the tool handed back to the client.
func toolErrorText(result sdkmcp.Result) string {
	res, ok := result.(*sdkmcp.CallToolResult)
	if !ok || res == nil || len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(*sdkmcp.TextContent); ok {
		return text.Text
	}
	return ""
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/donation_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Skip if there was an error processing the request
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Get user ID from context (set by auth middleware)
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			// No user ID, can't track event
			return
		}

		eventName := EventNameForRoute(c.Request.Method, c.FullPath())

		// Skip if event name is empty (e.g., for 404s)
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}

		// Add route parameters if any
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		// Send event to PostHog
		posthogClient.Enqueue(userID, eventName, props)
	}
}

// EventNameForRoute derives an analytics event name from a route template, e.g.
// POST "/api/v1/wallets/:id/deposit" -> "post_wallets_id_deposit".
func EventNameForRoute(method, fullPath string) string {
	if fullPath == "" {
		return ""
	}
	path := strings.TrimPrefix(fullPath, "/api/v1")
	path = strings.Trim(strings.NewReplacer(":", "", "*", "").Replace(path), "/")
	if path == "" {
		return ""
	}
	return strings.ToLower(method) + "_" + strings.ReplaceAll(path, "/", "_")
}

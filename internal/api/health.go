package api

import (
	"net/http"
	"time"

	"github.com/ignite/outreach/internal/pkg/httputil"
)

var startTime = time.Now()

// HealthCheck serves GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "healthy",
		"uptime": time.Since(startTime).Round(time.Second).String(),
	})
}

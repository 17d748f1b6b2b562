package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/735726032/openai-SenseVoice/component"
	"github.com/735726032/openai-SenseVoice/version"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

var started = time.Now()

// HealthReport is the /health body.
type HealthReport struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Version    string                 `json:"version"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components"`
}

// ProbeReport is the /ready and /alive body.
type ProbeReport struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Timestamp string   `json:"timestamp"`
	Uptime    string   `json:"uptime,omitempty"`
	Failing   []string `json:"failing,omitempty"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return []component.Health{}
	}
	return checker(ctx)
}

// Health reports every component and their aggregate. Unhealthy outranks
// degraded and answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := HealthReport{
			Status:     component.StatusHealthy,
			Service:    serviceName,
			Version:    version.Short(),
			Timestamp:  now(),
			Components: check(c.Request.Context(), checker),
		}
		for _, h := range report.Components {
			if h.Status == component.StatusUnhealthy {
				report.Status = component.StatusUnhealthy
				break
			}
			if h.Status == component.StatusDegraded {
				report.Status = component.StatusDegraded
			}
		}

		code := http.StatusOK
		if report.Status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}

// Readiness answers 503 while any component, typically the model backend,
// is unhealthy. Degraded components still take traffic.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := ProbeReport{Status: "ready", Service: serviceName, Timestamp: now()}
		for _, h := range check(c.Request.Context(), checker) {
			if h.Status == component.StatusUnhealthy {
				report.Failing = append(report.Failing, h.Name)
			}
		}
		if len(report.Failing) > 0 {
			report.Status = "not_ready"
			c.JSON(http.StatusServiceUnavailable, report)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// Liveness only proves the process serves HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ProbeReport{
			Status:    "alive",
			Service:   serviceName,
			Timestamp: now(),
			Uptime:    time.Since(started).Round(time.Second).String(),
		})
	}
}

// Version reports the build information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}

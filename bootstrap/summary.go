package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/735726032/openai-SenseVoice/component"
)

// InfrastructureInfo is one infrastructure line of the startup summary.
type InfrastructureInfo struct {
	Name    string
	Type    string // "server", "model", "observability"
	Details string
	Port    int
	Healthy bool
}

// Summary collects and prints the startup overview: infrastructure,
// routes and live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer

	infrastructure []InfrastructureInfo
	routes         []component.Route
	health         []component.Health
}

// NewSummary creates a summary that prints to out, or stdout when nil.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure adds an infrastructure line by hand.
func (s *Summary) TrackInfrastructure(info InfrastructureInfo) {
	s.infrastructure = append(s.infrastructure, info)
}

// Collect reads descriptions, routes and health from the registry.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) {
	if registry == nil {
		return
	}
	s.health = registry.HealthAll(ctx)
	healthy := make(map[string]bool, len(s.health))
	for _, h := range s.health {
		healthy[h.Name] = h.Status == component.StatusHealthy
	}

	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			name := desc.Name
			if name == "" {
				name = c.Name()
			}
			s.infrastructure = append(s.infrastructure, InfrastructureInfo{
				Name:    name,
				Type:    desc.Type,
				Details: desc.Details,
				Port:    desc.Port,
				Healthy: healthy[c.Name()],
			})
		}
		if rp, ok := c.(component.RouteProvider); ok {
			s.routes = append(s.routes, rp.Routes()...)
		}
	}
}

// Display prints the summary.
func (s *Summary) Display() {
	w := s.out
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, displayVersion(s.version), s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "\nInfrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(w, "   %s %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), statusMark(inf.Healthy), inf.Name, inf.Type, details)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(s.health) > 0 {
		fmt.Fprintf(w, "\nHealth\n")
		for i, h := range s.health {
			msg := ""
			if h.Message != "" {
				msg = ": " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s %s%s\n", treePrefix(i, len(s.health)), statusMark(h.Status == component.StatusHealthy), h.Name, strings.ToLower(string(h.Status)), msg)
		}
	}
	fmt.Fprintln(w)
}

func displayVersion(v string) string {
	if v == "" {
		return "(dev)"
	}
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusMark(healthy bool) string {
	if healthy {
		return "[ok]"
	}
	return "[!!]"
}

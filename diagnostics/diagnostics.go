// Package diagnostics exports plugin registry and lifecycle metrics to
// Prometheus.
package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/skekre98/keel/core"
)

const Name = "diagnostics"

// Collectors are the metrics kept up to date from app events.
type Collectors struct {
	Admissions *prometheus.CounterVec
	Registered prometheus.Gauge
	State      prometheus.Gauge
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keel",
			Name:      "plugin_admissions_total",
			Help:      "Plugin admissions by outcome.",
		}, []string{"outcome"}),
		Registered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "keel",
			Name:      "plugins_registered",
			Help:      "Plugins that finished Build.",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "keel",
			Name:      "lifecycle_state",
			Help:      "Lifecycle state: 0 adding, 1 ready, 2 finished, 3 cleaned.",
		}),
	}
	for _, col := range []prometheus.Collector{c.Admissions, c.Registered, c.State} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	// Pre-create the series so they read zero before the first event.
	for _, outcome := range []string{"added", "skipped", "failed"} {
		c.Admissions.WithLabelValues(outcome)
	}
	return c, nil
}

// Observe updates the collectors for one event.
func (c *Collectors) Observe(app *core.App, e core.Event) {
	switch e.Kind {
	case core.EventPluginAdded:
		c.Admissions.WithLabelValues("added").Inc()
	case core.EventPluginSkipped:
		c.Admissions.WithLabelValues("skipped").Inc()
	case core.EventPluginFailed:
		c.Admissions.WithLabelValues("failed").Inc()
	}
	c.Registered.Set(float64(added(app)))
	c.State.Set(float64(e.State))
}

func added(app *core.App) int {
	n := 0
	for _, p := range app.Plugins() {
		if p.Status == "added" {
			n++
		}
	}
	return n
}

// Plugin registers the collectors and subscribes them to app events. The
// registry is stored as a prometheus.Gatherer resource for the metrics
// endpoint.
type Plugin struct {
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Build(app *core.App) error {
	reg := p.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c, err := NewCollectors(reg)
	if err != nil {
		return err
	}
	// Plugins admitted before this one.
	c.Admissions.WithLabelValues("added").Add(float64(added(app)))
	c.Registered.Set(float64(added(app)))
	c.State.Set(float64(app.State()))

	app.Observe(func(e core.Event) { c.Observe(app, e) })

	core.Put[*Collectors](app.Container, c)
	core.Put[prometheus.Gatherer](app.Container, reg)
	return nil
}

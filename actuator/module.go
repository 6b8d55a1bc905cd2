package actuator

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/keel/config"
	"github.com/skekre98/keel/core"
	"github.com/skekre98/keel/web"
)

const Name = "actuator"

type plugin struct{}

// Plugin returns the actuator plugin. It adds the web plugin itself when no
// engine is installed yet.
func Plugin() core.Plugin { return &plugin{} }

func (p *plugin) Name() string { return Name }

func (p *plugin) Build(app *core.App) error {
	if _, ok := core.Lookup[*gin.Engine](app.Container); !ok {
		if err := app.AddIfNew(web.Plugin()); err != nil {
			return err
		}
	}
	engine := web.Engine(app.Container)
	cfg := rootConfig(app.Container)
	started := time.Now()

	group := engine.Group(cfg.Actuator.BasePath)

	// Health
	group.GET("/health", func(ctx *gin.Context) {
		state := app.State()
		status, code := "UP", http.StatusOK
		if state < core.StateCleaned {
			status, code = "STARTING", http.StatusServiceUnavailable
		}
		ctx.JSON(code, gin.H{
			"status": status,
			"state":  state.String(),
		})
	})

	// Info
	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"id":      app.ID,
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"uptime":       time.Since(started).Round(time.Second).String(),
				"pid":          os.Getpid(),
			},
		})
	})

	// Plugins, in registration order. Built once the app is running so
	// handlers never walk the registry while it can still change.
	var plugins []core.PluginInfo
	app.Observe(func(e core.Event) {
		if e.Kind == core.EventStateChanged && e.State == core.StateCleaned {
			plugins = app.Plugins()
		}
	})
	group.GET("/plugins", func(ctx *gin.Context) {
		if plugins == nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "STARTING"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"plugins": plugins})
	})

	// Metrics
	if cfg.Observability.Metrics.Enabled {
		gatherer, ok := core.Lookup[prometheus.Gatherer](app.Container)
		if !ok {
			gatherer = prometheus.DefaultGatherer
		}
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = cfg.Actuator.BasePath + "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	app.Logger.Debug("actuator routes registered", "base_path", cfg.Actuator.BasePath)
	return nil
}

func rootConfig(c core.Container) *config.Root {
	if root, ok := core.Lookup[*config.Root](c); ok && root != nil {
		return root
	}
	return &config.Root{
		App:           config.AppInfo{Name: "keel", Version: "dev"},
		Actuator:      config.ActuatorConfig{BasePath: "/actuator"},
		Observability: config.ObservabilityConfig{Metrics: config.MetricsConfig{Enabled: true, Path: "/actuator/metrics"}},
	}
}

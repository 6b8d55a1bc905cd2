package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/keel/config"
	"github.com/skekre98/keel/core"
)

const Name = "web"

// Engine returns the gin engine installed by the web plugin.
func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

// Plugin returns the HTTP server plugin. Other plugins add routes to
// Engine(app.Container) from their own Build; the listener is bound in
// Finish and served once the app runs its services.
func Plugin(opts ...Option) core.Plugin {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webPlugin{opts: options}
}

type webPlugin struct {
	opts     Options
	server   *http.Server
	listener net.Listener
	served   chan struct{}
}

func (p *webPlugin) Name() string { return Name }

func (p *webPlugin) Build(app *core.App) error {
	cfg := serverConfig(app.Container)
	if p.opts.Addr != "" {
		cfg.Addr = p.opts.Addr
	}
	l := app.Logger

	r := gin.New()
	r.Use(RequestID())
	r.Use(RecoveryProblem(l))
	r.Use(AccessLog(l))
	r.Use(p.opts.Middlewares...)

	for _, reg := range p.opts.Routes {
		reg(r)
	}

	p.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	core.Put[*gin.Engine](app.Container, r)
	core.Put[*http.Server](app.Container, p.server)
	return nil
}

// Finish binds the listener so a taken port fails startup before any
// service runs.
func (p *webPlugin) Finish(app *core.App) error {
	ln, err := net.Listen("tcp", p.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", p.server.Addr, err)
	}
	p.listener = ln
	core.Put[net.Addr](app.Container, ln.Addr())
	return nil
}

func (p *webPlugin) Start(_ context.Context, app *core.App) error {
	if p.listener == nil {
		return errors.New("http listener not bound")
	}
	p.served = make(chan struct{})
	go func() {
		defer close(p.served)
		app.Logger.Info("http server starting", "addr", p.listener.Addr().String())
		if err := p.server.Serve(p.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (p *webPlugin) Stop(ctx context.Context, _ *core.App) error {
	if p.served == nil {
		// Never served: only the listener bound in Finish is open.
		if p.listener != nil {
			return p.listener.Close()
		}
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := p.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-p.served
	return nil
}

// serverConfig reads the server section of the config resource, falling
// back to config defaults when no config plugin ran.
func serverConfig(c core.Container) config.ServerConfig {
	if root, ok := core.Lookup[*config.Root](c); ok && root != nil {
		return root.Server
	}
	return config.ServerConfig{Addr: ":8080", ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second}
}

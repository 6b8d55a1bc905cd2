package web

// Options configures the web plugin.
type Options struct {
	// Routes are registered during Build, in order.
	Routes []func(r Router)
	// Middlewares run after the built-in request ID, recovery and access log.
	Middlewares []Handler
	// Addr overrides server.addr from the config resource.
	Addr string
}

type Option func(*Options)

func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}

// WithAddr sets the listen address, ":0" picks a free port.
func WithAddr(addr string) Option {
	return func(o *Options) { o.Addr = addr }
}

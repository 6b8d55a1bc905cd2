package config

import (
	"context"
	"fmt"
)

// Defaults returns the values every Root starts from before sources are
// merged on top.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":    "keel",
			"version": "dev",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"readTimeout":  "10s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/actuator/metrics",
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
		"logging": map[string]any{
			"level":   "info",
			"format":  "text",
			"capture": 0,
		},
		"lifecycle": map[string]any{
			"pollInterval":    "10ms",
			"readyTimeout":    "0s",
			"shutdownTimeout": "15s",
		},
		"plugins": map[string]any{
			"disabled": []string{},
		},
	}
}

// MapSource serves a fixed map. It is used for defaults and in tests.
type MapSource struct {
	Label string
	Data  map[string]any
}

func (s *MapSource) Name() string {
	if s.Label == "" {
		return "map"
	}
	return s.Label
}

func (s *MapSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := map[string]any{}
	MergeMaps(out, s.Data)
	return out, nil
}

func (s *MapSource) Watch(ctx context.Context, ch chan<- Event) error { return nil }

// Load builds a Root from Defaults overlaid by sources, in order. The returned
// Manager keeps cfg current on Reload.
func Load(ctx context.Context, opts Options, sources ...ConfigSource) (*Root, *Manager, error) {
	all := append([]ConfigSource{&MapSource{Label: "defaults", Data: Defaults()}}, sources...)

	cfg := &Root{}
	mgr, err := NewManagerContext(ctx, cfg, opts, all...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, mgr, nil
}

package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/keel/config"
)

// EnvPrefix is the default prefix for environment variables.
const EnvPrefix = "KEEL_"

// EnvSource loads prefixed environment variables into a nested map.
//
// The prefix is stripped, the rest lowercased and split on underscores:
//
//	KEEL_SERVER_ADDR=:9090      -> {server: {addr: ":9090"}}
//	KEEL_LOGGING_LEVEL=debug    -> {logging: {level: "debug"}}
//
// Values stay strings; the Binder converts them. When a leaf and a nested
// key collide (KEEL_DB=x and KEEL_DB_HOST=y) the first one seen wins.
//
// Keys are lowercased, so camelCase config keys are matched by mapstructure's
// case-insensitive field lookup: KEEL_LIFECYCLE_READYTIMEOUT=5s.
type EnvSource struct {
	// Prefix overrides EnvPrefix.
	Prefix string
	// Environ overrides os.Environ, for tests.
	Environ func() []string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := e.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}
	return loadEnvVars(prefix, environ()), nil
}

// Watch is a no-op: the environment is fixed for the life of the process.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)
	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if key == "" {
			continue
		}
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			if _, isMap := current[segment].(map[string]any); isMap {
				return
			}
			current[segment] = value
			return
		}

		switch existing := current[segment].(type) {
		case map[string]any:
			current = existing
		case nil:
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
		default:
			// a leaf already lives here
			return
		}
	}
}

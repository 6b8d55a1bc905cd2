package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/skekre98/keel/config"
)

// CLISource loads dotted command-line flags into a nested map:
//
//	--server.addr=:9090 --logging.level debug -app.name=demo
//	  -> {server: {addr: ":9090"}, logging: {level: "debug"}, app: {name: "demo"}}
//
// Single-dash long flags are accepted, empty values and positional
// arguments are ignored. Values stay strings; the Binder converts them. It
// belongs last in the source chain so flags override everything else.
type CLISource struct {
	// Args overrides os.Args[1:].
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseCliFlags(args), nil
}

// Watch is a no-op: arguments never change.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func parseCliFlags(raw []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	args := normalizeArgs(raw)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := extractFlagName(arg)
		if name == "" || !strings.Contains(name, ".") {
			continue
		}
		if fs.Lookup(name) == nil {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	_ = fs.Parse(args)

	fs.Visit(func(flag *pflag.Flag) {
		if value := flag.Value.String(); value != "" {
			setNestedValue(result, strings.Split(flag.Name, "."), value)
		}
	})
	return result
}

// normalizeArgs turns single-dash long flags into double-dash ones for pflag.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		rest, single := strings.CutPrefix(arg, "-")
		if single && !strings.HasPrefix(rest, "-") && len(rest) > 1 && rest[0] != '=' {
			arg = "-" + arg
		}
		out[i] = arg
	}
	return out
}

func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	name, _, _ := strings.Cut(arg, "=")
	return name
}

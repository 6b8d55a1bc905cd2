package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/skekre98/keel/config"
)

// HCLSource loads application.hcl from BasePath.
//
// Attributes become keys and blocks become nested maps; block labels add one
// more level each:
//
//	app { name = "demo" }
//	server {
//	  addr        = ":9090"
//	  readTimeout = "5s"
//	}
//	plugins { disabled = ["actuator"] }
//
// Expressions may read the process environment through the env variable:
// addr = env.PORT.
type HCLSource struct {
	BasePath string
	// Optional makes a missing file load as empty instead of failing.
	Optional bool
}

func (h *HCLSource) Name() string { return "hcl" }

func (h *HCLSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := findFile(h.BasePath, "application", ".hcl")
	if path == "" {
		if h.Optional {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("application.hcl in %q: %w", h.BasePath, os.ErrNotExist)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse %s: unexpected body type %T", path, file.Body)
	}

	out, diags := bodyToMap(body, evalContext())
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", path, diags)
	}
	return out, nil
}

// Watch reports edits of application.hcl until ctx is done.
func (h *HCLSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return watchFiles(ctx, h.BasePath, []string{"application.hcl"}, ch)
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && hclsyntax.ValidIdentifier(k) {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

func bodyToMap(body *hclsyntax.Body, ectx *hcl.EvalContext) (map[string]any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, d := attr.Expr.Value(ectx)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported value",
				Detail:   fmt.Sprintf("attribute %q: %s", name, err),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		out[name] = goVal
	}

	for _, block := range body.Blocks {
		nested, d := bodyToMap(block.Body, ectx)
		diags = append(diags, d...)

		// wrap from the innermost label outwards
		var v map[string]any = nested
		for i := len(block.Labels) - 1; i >= 0; i-- {
			v = map[string]any{block.Labels[i]: v}
		}
		config.MergeMaps(out, map[string]any{block.Type: v})
	}
	return out, diags
}

// ctyToGo converts through cty's JSON encoding, which gives plain maps,
// slices, strings, float64 and bool.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

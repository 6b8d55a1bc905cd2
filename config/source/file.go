package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/skekre98/keel/config"
)

// FileSource loads application.yaml (or .yml) from BasePath and, when Profile
// is set, deep-merges application.<profile>.yaml over it.
//
//	configs/
//	  application.yaml
//	  application.dev.yaml
type FileSource struct {
	BasePath string
	// Profile is optional; a missing profile file is ignored.
	Profile string
	// Optional makes a missing base file load as empty instead of failing.
	Optional bool
}

func (f *FileSource) Name() string { return "file" }

// Load returns os.ErrNotExist (wrapped) when the base file is missing and
// Optional is false.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]any{}
	baseFile := findFile(f.BasePath, "application", ".yaml", ".yml")
	if baseFile == "" {
		if f.Optional {
			return data, nil
		}
		return nil, fmt.Errorf("application.yaml in %q: %w", f.BasePath, os.ErrNotExist)
	}
	if err := readYAML(baseFile, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findFile(f.BasePath, "application."+f.Profile, ".yaml", ".yml"); profileFile != "" {
			overlay := map[string]any{}
			if err := readYAML(profileFile, overlay); err != nil {
				return nil, err
			}
			config.MergeMaps(data, overlay)
		}
	}
	return data, nil
}

// Watch reports edits of the base and profile files until ctx is done.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	names := []string{"application.yaml", "application.yml"}
	if f.Profile != "" {
		names = append(names, "application."+f.Profile+".yaml", "application."+f.Profile+".yml")
	}
	return watchFiles(ctx, f.BasePath, names, ch)
}

func findFile(dir, basename string, exts ...string) string {
	for _, ext := range exts {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

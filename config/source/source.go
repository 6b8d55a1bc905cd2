// Package source provides the configuration sources used by config.Manager.
package source

import "github.com/skekre98/keel/config"

// ChainOptions selects where the standard chain reads from.
type ChainOptions struct {
	Dir     string
	Profile string
	// Args are the flags for the CLI source; nil means os.Args[1:].
	Args []string
}

// Chain returns the standard precedence chain, lowest first: YAML file, HCL
// file, environment, flags. Both files are optional.
func Chain(opts ChainOptions) []config.ConfigSource {
	return []config.ConfigSource{
		&FileSource{BasePath: opts.Dir, Profile: opts.Profile, Optional: true},
		&HCLSource{BasePath: opts.Dir, Optional: true},
		&EnvSource{},
		&CLISource{Args: opts.Args},
	}
}

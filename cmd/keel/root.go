package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skekre98/keel/config"
	"github.com/skekre98/keel/config/source"
	"github.com/skekre98/keel/core"
	"github.com/skekre98/keel/defaults"
	"github.com/skekre98/keel/logging"
)

// RootCmd builds the command tree. args are the raw process arguments; the
// dotted config flags among them (--server.addr=:9090) are read by the CLI
// config source rather than by cobra.
func RootCmd(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "keel",
		Short:         "Compose and run a plugin application",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetArgs(args)

	cmd.PersistentFlags().String("config-dir", ".", "directory holding application[.profile].yaml and application.hcl")
	cmd.PersistentFlags().String("profile", "", "configuration profile")
	cmd.FParseErrWhitelist.UnknownFlags = true

	cmd.AddCommand(RunCmd(args))
	cmd.AddCommand(PluginsCmd(args))

	return cmd
}

// newApp loads configuration and admits the default plugin group. The
// manager is closed by the config plugin's Stop when the app runs; callers
// that never run the app close it themselves.
func newApp(command *cobra.Command, args []string, watch bool) (*core.App, *config.Root, *config.Manager, error) {
	dir, _ := command.Flags().GetString("config-dir")
	profile, _ := command.Flags().GetString("profile")

	bootLogger := logging.New(logging.Options{Writer: command.ErrOrStderr()})
	root, mgr, err := config.Load(command.Context(),
		config.Options{AutoReload: watch, Logger: bootLogger},
		source.Chain(source.ChainOptions{Dir: dir, Profile: profile, Args: args})...,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	app := core.NewApp(bootLogger)
	if err := app.Add(defaults.Group{Config: root, Manager: mgr, LogWriter: command.ErrOrStderr()}); err != nil {
		mgr.Close()
		return nil, nil, nil, fmt.Errorf("add default plugins: %w", err)
	}
	return app, root, mgr, nil
}

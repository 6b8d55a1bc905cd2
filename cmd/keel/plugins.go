package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func PluginsCmd(args []string) *cobra.Command {
	command := &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins the application would run, in order",
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			app, _, mgr, err := newApp(command, args, false)
			if err != nil {
				return err
			}
			defer mgr.Close()

			w := tabwriter.NewWriter(command.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tUNIQUE\tSTATUS")
			for _, p := range app.Plugins() {
				fmt.Fprintf(w, "%s\t%t\t%s\n", p.Name, p.Unique, p.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "state: %s\n", app.AdvanceIfReady())
			return nil
		},
	}
	command.FParseErrWhitelist.UnknownFlags = true

	return command
}

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/skekre98/keel/core"
)

func RunCmd(args []string) *cobra.Command {
	command := &cobra.Command{
		Use:   "run",
		Short: "Run the application until interrupted",
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			watch, _ := command.Flags().GetBool("watch")

			gin.SetMode(gin.ReleaseMode)
			app, root, _, err := newApp(command, args, watch)
			if err != nil {
				return err
			}

			return app.Run(command.Context(), core.RunOptions{
				PollInterval:    root.Lifecycle.PollInterval,
				ReadyTimeout:    root.Lifecycle.ReadyTimeout,
				ShutdownTimeout: root.Lifecycle.ShutdownTimeout,
			})
		},
	}
	command.Flags().Bool("watch", false, "reload configuration when its sources change")
	command.FParseErrWhitelist.UnknownFlags = true

	return command
}

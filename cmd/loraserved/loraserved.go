package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/launcher"
	"loraserve.io/loraserve/pkg/version"
)

func main() {
	if err := NewLauncherCmd().Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(launcher.ExitCode(err))
	}
}

func NewLauncherCmd() *cobra.Command {
	defaults := launcher.DefaultOptions()
	cmd := &cobra.Command{
		Use:          "loraserved",
		Short:        "serve the wrapped inference server behind the platform routes",
		Version:      version.Get().String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.SetFlags(log.LstdFlags | log.Lshortfile)
			ctx = logr.NewContext(ctx, stdr.NewWithOptions(log.Default(), stdr.Options{LogCaller: stdr.Error}))

			// the environment contract wins over the compiled defaults, the
			// flags win over both
			options, err := launcher.OptionsFromOSEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen-port") {
				options.ListenPort = defaults.ListenPort
			}
			if cmd.Flags().Changed("upstream-port") {
				options.UpstreamPort = defaults.UpstreamPort
			}
			if cmd.Flags().Changed("server-command") {
				options.ServerCommand = defaults.ServerCommand
			}
			return launcher.Run(ctx, options)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&defaults.ListenPort, "listen-port", defaults.ListenPort, "platform facing proxy port")
	flags.IntVar(&defaults.UpstreamPort, "upstream-port", defaults.UpstreamPort, "loopback port the wrapped server binds")
	flags.StringSliceVar(&defaults.ServerCommand, "server-command", defaults.ServerCommand, "command launching the wrapped server")

	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"loraserve.io/loraserve/cmd/loraserve/adapter"
	"loraserve.io/loraserve/cmd/loraserve/bench"
	"loraserve.io/loraserve/cmd/loraserve/endpoint"
	"loraserve.io/loraserve/pkg/version"
)

const ErrExitCode = 1

func main() {
	if err := NewLoraserveCmd().Execute(); err != nil {
		os.Exit(ErrExitCode)
	}
}

func NewLoraserveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loraserve",
		Short:   "Package LoRA adapters, deploy the multi adapter endpoint and benchmark it",
		Version: version.Get().String(),
	}
	cmd.AddCommand(
		adapter.NewAdapterCmd(),
		endpoint.NewEndpointCmd(),
		bench.NewBenchCmd(),
	)
	return cmd
}

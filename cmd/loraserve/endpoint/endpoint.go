package endpoint

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/deploy"
)

func NewEndpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage the hosted inference endpoint",
	}
	cmd.AddCommand(
		NewDeployCmd(),
		NewStatusCmd(),
		NewDeleteCmd(),
	)
	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	logger := stdr.NewWithOptions(log.Default(), stdr.Options{LogCaller: stdr.Error})
	return logr.NewContext(ctx, logger), cancel
}

func newDeployer(ctx context.Context, region string) (*deploy.Deployer, error) {
	return deploy.NewDeployer(ctx, region, logr.FromContextOrDiscard(ctx))
}

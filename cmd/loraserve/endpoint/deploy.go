package endpoint

import (
	"errors"

	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/deploy"
)

func NewDeployCmd() *cobra.Command {
	specfile := ""
	region := "us-east-1"
	waitinservice := true
	pollinterval := deploy.DefaultPollInterval
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the model, endpoint config and endpoint from a spec file",
		Example: `
  loraserve endpoint deploy -f endpoint.yaml --region us-west-2
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if specfile == "" {
				return errors.New("a spec file is required, see -f")
			}
			ctx, cancel := signalContext()
			defer cancel()

			spec, err := deploy.LoadEndpointSpec(specfile)
			if err != nil {
				return err
			}
			deployer, err := newDeployer(ctx, region)
			if err != nil {
				return err
			}
			if err := deployer.Deploy(ctx, spec); err != nil {
				return err
			}
			if !waitinservice {
				return nil
			}
			return deployer.WaitInService(ctx, spec.EndpointName, pollinterval)
		},
	}
	cmd.Flags().StringVarP(&specfile, "filename", "f", specfile, "endpoint spec file")
	cmd.Flags().StringVar(&region, "region", region, "platform region")
	cmd.Flags().BoolVar(&waitinservice, "wait", waitinservice, "wait until the endpoint is in service")
	cmd.Flags().DurationVar(&pollinterval, "poll-interval", pollinterval, "status poll interval while waiting")
	return cmd
}

package endpoint

import (
	"errors"

	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/deploy"
)

func NewDeleteCmd() *cobra.Command {
	specfile := ""
	region := "us-east-1"
	cmd := &cobra.Command{
		Use:          "delete",
		Short:        "Delete the endpoint and the resources deploy created",
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
			return deployer.Delete(ctx, spec)
		},
	}
	cmd.Flags().StringVarP(&specfile, "filename", "f", specfile, "endpoint spec file")
	cmd.Flags().StringVar(&region, "region", region, "platform region")
	return cmd
}

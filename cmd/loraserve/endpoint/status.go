package endpoint

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	region := "us-east-1"
	cmd := &cobra.Command{
		Use:          "status <endpoint-name>",
		Short:        "Show the endpoint status",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("an endpoint name is required")
			}
			ctx, cancel := signalContext()
			defer cancel()

			deployer, err := newDeployer(ctx, region)
			if err != nil {
				return err
			}
			status, err := deployer.Status(ctx, args[0])
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Endpoint", "Status", "Failure Reason"})
			t.AppendRow(table.Row{status.Name, status.Status, status.FailureReason})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", region, "platform region")
	return cmd
}

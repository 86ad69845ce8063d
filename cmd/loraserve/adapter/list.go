package adapter

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/storage"
	"loraserve.io/loraserve/pkg/units"
)

func NewListCmd() *cobra.Command {
	store := newStoreFlags()
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List adapters stored under the prefix",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			provider, err := store.Provider(ctx)
			if err != nil {
				return err
			}
			return List(ctx, provider, store.prefix)
		},
	}
	store.AddFlags(cmd.Flags())
	return cmd
}

func List(ctx context.Context, provider storage.Provider, prefix string) error {
	names, err := provider.ListDirs(ctx, prefix)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Files", "Size"})
	for _, name := range names {
		objects, err := provider.List(ctx, path.Join(prefix, name), true)
		if err != nil {
			return err
		}
		var bytes int64
		for _, obj := range objects {
			bytes += obj.Size
		}
		t.AppendRow(table.Row{name, len(objects), units.HumanSize(float64(bytes))})
	}
	t.Render()
	return nil
}

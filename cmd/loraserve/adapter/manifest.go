package adapter

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/manifest"
)

const DefaultMountRoot = "/opt/ml/model/adapters"

func NewManifestCmd() *cobra.Command {
	store := newStoreFlags()
	mountroot := DefaultMountRoot
	manifestkey := "manifest.txt"
	dryrun := false
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Build the adapter manifest from the stored adapters and publish it",
		Long: `Build the adapter manifest from the stored adapters and publish it.

The manifest key must be a sibling of the adapter prefix: the serving host
syncs the prefix to local disk, and a manifest nested inside it would be
picked up as a pseudo adapter directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			provider, err := store.Provider(ctx)
			if err != nil {
				return err
			}
			built, err := manifest.Build(ctx, provider, store.prefix, mountroot)
			if err != nil {
				return err
			}
			fmt.Println(built.Encode())
			if dryrun {
				return nil
			}
			return manifest.Publish(ctx, provider, manifestkey, store.prefix, built)
		},
	}
	store.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&mountroot, "mount-root", mountroot, "directory the serving host mounts the adapters at")
	cmd.Flags().StringVar(&manifestkey, "manifest-key", manifestkey, "object key to publish the manifest to")
	cmd.Flags().BoolVar(&dryrun, "dry-run", dryrun, "print the manifest without publishing")
	return cmd
}

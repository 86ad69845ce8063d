package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/progress"
	"loraserve.io/loraserve/pkg/storage"
	"loraserve.io/loraserve/pkg/units"
)

const PushConcurrency = 5

func NewPushCmd() *cobra.Command {
	store := newStoreFlags()
	cmd := &cobra.Command{
		Use:   "push <localdir> <name>",
		Short: "Upload one adapter directory to the object store",
		Example: `
  loraserve adapter push ./out/sql-lora sql-lora --s3-bucket my-bucket
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()
			if len(args) != 2 {
				return errors.New("push requires a local directory and an adapter name")
			}
			return Push(ctx, store, args[0], args[1])
		},
	}
	store.AddFlags(cmd.Flags())
	return cmd
}

func Push(ctx context.Context, store *storeFlags, localdir, name string) error {
	provider, err := store.Provider(ctx)
	if err != nil {
		return err
	}
	mb := progress.NewMultiBar(os.Stdout, progress.DefaultWidth, PushConcurrency)
	go mb.Run(ctx)

	summary, err := storage.UploadDir(ctx, provider, localdir, path.Join(store.prefix, name), mb)
	if err != nil {
		return err
	}
	fmt.Printf("pushed %s: %d files, %s\n", name, summary.Files, units.HumanSize(float64(summary.Bytes)))
	return nil
}

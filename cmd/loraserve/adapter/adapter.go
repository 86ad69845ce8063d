package adapter

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"loraserve.io/loraserve/pkg/storage"
)

func NewAdapterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adapter",
		Short: "Manage LoRA adapter artifacts on the object store",
	}
	cmd.AddCommand(
		NewPushCmd(),
		NewListCmd(),
		NewManifestCmd(),
	)
	return cmd
}

// storeFlags carries the object store wiring shared by every adapter
// subcommand.
type storeFlags struct {
	s3     *storage.S3Options
	prefix string
}

func newStoreFlags() *storeFlags {
	return &storeFlags{
		s3:     storage.NewDefaultS3Options(),
		prefix: "adapters",
	}
}

func (s *storeFlags) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&s.s3.Bucket, "s3-bucket", s.s3.Bucket, "s3 bucket holding adapter artifacts")
	flags.StringVar(&s.s3.Region, "s3-region", s.s3.Region, "s3 region")
	flags.StringVar(&s.s3.URL, "s3-url", s.s3.URL, "custom s3 endpoint url")
	flags.StringVar(&s.s3.AccessKey, "s3-access-key", s.s3.AccessKey, "s3 access key, default credential chain when empty")
	flags.StringVar(&s.s3.SecretKey, "s3-secret-key", s.s3.SecretKey, "s3 secret key")
	flags.BoolVar(&s.s3.PathStyle, "s3-path-style", s.s3.PathStyle, "use path style addressing")
	flags.StringVar(&s.prefix, "prefix", s.prefix, "key prefix the adapter directories live under")
}

func (s *storeFlags) Provider(ctx context.Context) (storage.Provider, error) {
	return storage.NewS3Provider(ctx, s.s3)
}

package bench

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/bench"
)

func NewBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark a deployed endpoint",
	}
	cmd.AddCommand(
		NewRunCmd(),
		NewHistoryCmd(),
	)
	return cmd
}

func DefaultHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".loraserve", "history")
}

func NewRunCmd() *cobra.Command {
	opts := bench.DefaultOptions()
	mode := string(opts.Mode)
	policy := string(opts.Policy)
	endpointurl := ""
	endpointname := ""
	region := "us-east-1"
	record := true
	historydir := DefaultHistoryDir()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive concurrent load against an endpoint and report latency and throughput",
		Example: `
  # single adapter, straight HTTP against a local container
  loraserve bench run --endpoint-url http://127.0.0.1:8080/invocations --adapters 1

  # budget spread across adapters, through the platform invocation API
  loraserve bench run --endpoint-name lora-serve --region us-west-2 \
    --mode distributed --adapters 1,2,3,4,5,6 --total 300 --workers 5
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			opts.Mode = bench.Mode(mode)
			opts.Policy = bench.FailurePolicy(policy)
			invoker, err := newInvoker(ctx, endpointurl, endpointname, region)
			if err != nil {
				return err
			}
			runner := bench.NewRunner(opts, invoker, logr.FromContextOrDiscard(ctx))
			start := time.Now()
			report, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			report.Render(os.Stdout)
			if !record {
				return nil
			}
			endpoint := endpointname
			if endpoint == "" {
				endpoint = endpointurl
			}
			return appendHistory(historydir, bench.NewRunRecord(endpoint, start, report))
		},
	}
	cmd.Flags().StringVar(&endpointurl, "endpoint-url", endpointurl, "invocation url of the serving container, mutually exclusive with --endpoint-name")
	cmd.Flags().StringVar(&endpointname, "endpoint-name", endpointname, "hosted endpoint to invoke through the platform runtime")
	cmd.Flags().StringVar(&region, "region", region, "platform region, used with --endpoint-name")
	cmd.Flags().StringVar(&mode, "mode", mode, "traffic pattern, single or distributed")
	cmd.Flags().IntVar(&opts.TotalRequests, "total", opts.TotalRequests, "total request budget for the run")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "concurrent workers draining the budget")
	cmd.Flags().StringSliceVar(&opts.Adapters, "adapters", opts.Adapters, "adapter names, single mode uses the first")
	cmd.Flags().StringVar(&opts.Prompt, "prompt", opts.Prompt, "prompt sent with every request")
	cmd.Flags().DurationVar(&opts.CallTimeout, "timeout", opts.CallTimeout, "per call timeout, 0 disables")
	cmd.Flags().StringVar(&policy, "policy", policy, "failure policy, count, retry or abort")
	cmd.Flags().IntVar(&opts.MaxRetries, "retries", opts.MaxRetries, "retries per call under the retry policy")
	cmd.Flags().BoolVar(&record, "record", record, "archive the run in the local history")
	cmd.Flags().StringVar(&historydir, "history-dir", historydir, "local history location")
	return cmd
}

func newInvoker(ctx context.Context, endpointurl, endpointname, region string) (bench.Invoker, error) {
	switch {
	case endpointurl != "" && endpointname != "":
		return nil, errors.New("--endpoint-url and --endpoint-name are mutually exclusive")
	case endpointurl != "":
		return bench.NewHTTPInvoker(endpointurl), nil
	case endpointname != "":
		return bench.NewEndpointInvoker(ctx, region, endpointname)
	default:
		return nil, errors.New("one of --endpoint-url or --endpoint-name is required")
	}
}

func appendHistory(dir string, record bench.RunRecord) error {
	history, err := bench.OpenHistory(dir)
	if err != nil {
		return err
	}
	defer history.Close()
	return history.Append(record)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	logger := stdr.NewWithOptions(log.Default(), stdr.Options{LogCaller: stdr.Error})
	return logr.NewContext(ctx, logger), cancel
}

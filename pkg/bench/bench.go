// Package bench drives concurrent load against a deployed inference endpoint
// and reports latency and throughput under two traffic patterns.
package bench

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

type Mode string

const (
	// ModeSingle hammers one fixed adapter with the whole budget.
	ModeSingle Mode = "single"
	// ModeDistributed spreads the budget across all adapters, each call
	// picking a random adapter with budget left.
	ModeDistributed Mode = "distributed"
)

// FailurePolicy decides what a failed remote call does to the run.
type FailurePolicy string

const (
	// PolicyCount consumes the budget slot and records the call as failed.
	// Failed calls are excluded from the latency mean. Default.
	PolicyCount FailurePolicy = "count"
	// PolicyRetry re-attempts the call up to MaxRetries times before
	// recording it as failed. The slot is consumed once.
	PolicyRetry FailurePolicy = "retry"
	// PolicyAbort cancels the whole run on the first failure.
	PolicyAbort FailurePolicy = "abort"
)

// Invoker performs one remote inference call against the named adapter.
type Invoker interface {
	Invoke(ctx context.Context, adapter string, prompt string) error
}

type Options struct {
	Mode          Mode
	TotalRequests int
	Workers       int
	Adapters      []string
	Prompt        string
	CallTimeout   time.Duration
	Policy        FailurePolicy
	MaxRetries    int
}

func DefaultOptions() *Options {
	return &Options{
		Mode:          ModeSingle,
		TotalRequests: 300,
		Workers:       5,
		Prompt:        "Tell me something about Amazon SageMaker?",
		CallTimeout:   60 * time.Second,
		Policy:        PolicyCount,
		MaxRetries:    2,
	}
}

func (o *Options) Validate() error {
	switch {
	case o.TotalRequests <= 0:
		return loraserveerrors.NewParameterInvalidError("total requests must be positive")
	case o.Workers <= 0:
		return loraserveerrors.NewParameterInvalidError("workers must be positive")
	case len(o.Adapters) == 0:
		return loraserveerrors.NewParameterInvalidError("at least one adapter is required")
	}
	switch o.Mode {
	case ModeSingle, ModeDistributed:
	default:
		return loraserveerrors.NewParameterInvalidError("mode must be single or distributed")
	}
	switch o.Policy {
	case PolicyCount, PolicyRetry, PolicyAbort:
	default:
		return loraserveerrors.NewParameterInvalidError("failure policy must be count, retry or abort")
	}
	return nil
}

type Runner struct {
	Options *Options
	Invoker Invoker
	Log     logr.Logger
}

func NewRunner(options *Options, invoker Invoker, log logr.Logger) *Runner {
	return &Runner{Options: options, Invoker: invoker, Log: log}
}

// Run executes the benchmark and blocks until every worker has joined.
// Statistics are computed only after the join.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	opts := r.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var budget *Budget
	switch opts.Mode {
	case ModeSingle:
		budget = NewSingleBudget(opts.Adapters[0], opts.TotalRequests)
	case ModeDistributed:
		budget = NewDistributedBudget(opts.Adapters, opts.TotalRequests)
	}
	planned := budget.Size()
	if planned < opts.TotalRequests {
		r.Log.Info("budget truncated by even split",
			"requested", opts.TotalRequests, "planned", planned, "adapters", len(opts.Adapters))
	}

	workers := make([]*workerResult, opts.Workers)
	eg, runctx := errgroup.WithContext(ctx)
	start := time.Now()
	for i := 0; i < opts.Workers; i++ {
		result := &workerResult{}
		workers[i] = result
		eg.Go(func() error {
			return r.work(runctx, budget, result)
		})
	}
	err := eg.Wait()
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Mode:      opts.Mode,
		Requested: opts.TotalRequests,
		Planned:   planned,
		Duration:  elapsed,
	}
	for _, w := range workers {
		report.Latencies = append(report.Latencies, w.latencies...)
		report.Failed += w.failed
	}
	return report, nil
}

// workerResult is private to one worker until the final merge, so latency
// collection is contention free.
type workerResult struct {
	latencies []time.Duration
	failed    int
}

func (r *Runner) work(ctx context.Context, budget *Budget, result *workerResult) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		adapter, ok := budget.Claim()
		if !ok {
			return nil
		}
		elapsed, err := r.attempt(ctx, adapter)
		if err != nil {
			switch r.Options.Policy {
			case PolicyAbort:
				return loraserveerrors.NewInvokeFailedError(adapter, err)
			default:
				result.failed++
				r.Log.V(1).Info("call failed", "adapter", adapter, "err", err.Error())
			}
			continue
		}
		result.latencies = append(result.latencies, elapsed)
	}
}

// attempt performs one (possibly retried) remote call and returns its
// wall clock duration. Retries are folded into the recorded latency of the
// attempt that succeeded.
func (r *Runner) attempt(ctx context.Context, adapter string) (time.Duration, error) {
	tries := 1
	if r.Options.Policy == PolicyRetry {
		tries += r.Options.MaxRetries
	}
	var lasterr error
	for i := 0; i < tries; i++ {
		start := time.Now()
		lasterr = r.invokeOnce(ctx, adapter)
		if lasterr == nil {
			return time.Since(start), nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
	}
	return 0, lasterr
}

func (r *Runner) invokeOnce(ctx context.Context, adapter string) error {
	if r.Options.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Options.CallTimeout)
		defer cancel()
	}
	return r.Invoker.Invoke(ctx, adapter, r.Options.Prompt)
}

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

// Report holds the merged results of one benchmark run. Latencies contains
// only successful calls; failed calls consumed their budget slot but do not
// influence the mean.
type Report struct {
	Mode      Mode
	Requested int
	// Planned is the budget after the even split. It is smaller than
	// Requested when the total does not divide evenly across adapters.
	Planned   int
	Failed    int
	Duration  time.Duration
	Latencies []time.Duration
}

func (r *Report) Calls() int {
	return len(r.Latencies) + r.Failed
}

// MeanLatency averages the successful calls. It errors when there were none,
// rather than reporting a meaningless zero.
func (r *Report) MeanLatency() (time.Duration, error) {
	if len(r.Latencies) == 0 {
		return 0, loraserveerrors.NewBudgetExhaustedError("no successful calls to average")
	}
	var sum time.Duration
	for _, l := range r.Latencies {
		sum += l
	}
	return sum / time.Duration(len(r.Latencies)), nil
}

// Throughput is completed calls (successes and failures both consumed a
// budget slot) per second of wall clock.
func (r *Report) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Calls()) / r.Duration.Seconds()
}

func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Mode", string(r.Mode)})
	t.AppendRow(table.Row{"Requested", r.Requested})
	if r.Planned != r.Requested {
		t.AppendRow(table.Row{"Planned (even split)", r.Planned})
	}
	t.AppendRow(table.Row{"Completed", r.Calls()})
	t.AppendRow(table.Row{"Failed", r.Failed})
	t.AppendRow(table.Row{"Wall time", r.Duration.Round(time.Millisecond).String()})
	if mean, err := r.MeanLatency(); err == nil {
		t.AppendRow(table.Row{"Mean latency", mean.Round(time.Millisecond).String()})
	} else {
		t.AppendRow(table.Row{"Mean latency", "n/a"})
	}
	t.AppendRow(table.Row{"Throughput", fmt.Sprintf("%.2f req/s", r.Throughput())})
	t.Render()
}

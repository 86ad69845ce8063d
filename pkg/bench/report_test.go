package bench

import (
	"bytes"
	"strings"
	"testing"
	"time"

	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

func TestMeanLatency(t *testing.T) {
	report := &Report{Latencies: []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
	}}
	mean, err := report.MeanLatency()
	if err != nil {
		t.Fatal(err)
	}
	if mean != 200*time.Millisecond {
		t.Errorf("MeanLatency() = %s, want 200ms", mean)
	}
}

func TestMeanLatencyNoCalls(t *testing.T) {
	report := &Report{Failed: 5}
	_, err := report.MeanLatency()
	if !loraserveerrors.IsErrCode(err, loraserveerrors.ErrCodeBudgetExhausted) {
		t.Errorf("MeanLatency() error = %v, want BUDGET_EXHAUSTED", err)
	}
}

func TestThroughput(t *testing.T) {
	report := &Report{
		Duration:  2 * time.Second,
		Failed:    10,
		Latencies: make([]time.Duration, 90),
	}
	if got := report.Throughput(); got != 50 {
		t.Errorf("Throughput() = %f, want 50", got)
	}
}

func TestRenderMentionsTruncation(t *testing.T) {
	report := &Report{
		Mode:      ModeDistributed,
		Requested: 301,
		Planned:   300,
		Duration:  time.Second,
		Latencies: []time.Duration{time.Millisecond},
	}
	buf := &bytes.Buffer{}
	report.Render(buf)
	if !strings.Contains(buf.String(), "even split") {
		t.Errorf("Render() does not surface the truncated budget:\n%s", buf.String())
	}
}

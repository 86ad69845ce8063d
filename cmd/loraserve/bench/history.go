package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"loraserve.io/loraserve/pkg/bench"
)

func NewHistoryCmd() *cobra.Command {
	historydir := DefaultHistoryDir()
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List archived benchmark runs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := bench.OpenHistory(historydir)
			if err != nil {
				return err
			}
			defer history.Close()
			records, err := history.List()
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Start", "Endpoint", "Mode", "Completed", "Failed", "Mean Latency", "Throughput"})
			for _, r := range records {
				mean := "n/a"
				if r.MeanLatencyMs > 0 {
					mean = (time.Duration(r.MeanLatencyMs) * time.Millisecond).String()
				}
				t.AppendRow(table.Row{
					r.Start.Local().Format(time.RFC3339),
					r.Endpoint,
					string(r.Mode),
					r.Completed,
					r.Failed,
					mean,
					fmt.Sprintf("%.2f req/s", r.Throughput),
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&historydir, "history-dir", historydir, "local history location")
	return cmd
}

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"dagsched/executor"
	"dagsched/metrics"
)

var resultHeader = []string{"task", "value", "vm_assigned", "start_time", "finish_time", "exec_time", "wait_time"}

// WriteResults emits one row per task. Start and finish times are offsets
// from the earliest actual start in the run, so rows from different runs
// line up for comparison. Failed tasks keep the -1 exec_time sentinel.
func WriteResults(w io.Writer, rep *executor.Report) error {

	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}

	base := runBase(rep)

	for _, r := range rep.Results {
		row := []string{
			fmt.Sprintf("%d", r.TaskID),
			fmt.Sprintf("%d", r.Value),
			r.Node,
			formatSeconds(relative(r.ActualStart, base)),
			formatSeconds(relative(r.ActualFinish, base)),
			formatSeconds(r.ExecTime),
			formatSeconds(r.WaitTime),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func SaveResults(path string, rep *executor.Report) error {

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	return WriteResults(f, rep)
}

var summaryHeader = []string{"algorithm", "makespan", "throughput", "total_wait_time", "avg_exec_time", "imbalance_degree", "resource_utilization", "succeeded", "failed"}

// WriteSummaries emits the cross-algorithm comparison table.
func WriteSummaries(w io.Writer, sums []metrics.Summary) error {

	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}

	for _, s := range sums {
		row := []string{
			s.Algorithm,
			formatSeconds(s.Makespan),
			formatSeconds(s.Throughput),
			formatSeconds(s.TotalWaitTime),
			formatSeconds(s.AvgExecTime),
			formatSeconds(s.Imbalance),
			formatSeconds(s.Utilization),
			fmt.Sprintf("%d", s.Succeeded),
			fmt.Sprintf("%d", s.Failed),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func SaveSummaries(path string, sums []metrics.Summary) error {

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	return WriteSummaries(f, sums)
}

// runBase is the earliest actual start across the run; tasks that never
// started (failed on permit acquisition) do not move the base.
func runBase(rep *executor.Report) time.Time {

	var base time.Time
	for _, r := range rep.Results {
		if r.ActualStart.IsZero() {
			continue
		}
		if base.IsZero() || r.ActualStart.Before(base) {
			base = r.ActualStart
		}
	}

	return base
}

func relative(t, base time.Time) float64 {

	if t.IsZero() || base.IsZero() {
		return 0.0
	}

	return t.Sub(base).Seconds()
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

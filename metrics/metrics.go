package metrics

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"dagsched/executor"
	"dagsched/node"
)

// Summary aggregates a dispatch run. All figures are derived from the
// successful subset only; Failed says how many results were excluded.
// Every division with a zero denominator yields 0.
type Summary struct {
	Algorithm     string  `json:"algorithm"`
	Makespan      float64 `json:"makespan"`
	Throughput    float64 `json:"throughput"`
	TotalWaitTime float64 `json:"total_wait_time"`
	AvgExecTime   float64 `json:"avg_exec_time"`
	Imbalance     float64 `json:"imbalance_degree"`
	Utilization   float64 `json:"resource_utilization"`
	ExecTimeP50   float64 `json:"exec_time_p50"`
	ExecTimeP95   float64 `json:"exec_time_p95"`
	ExecTimeMax   float64 `json:"exec_time_max"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
}

const histogramMaxMs = int64(6 * time.Hour / time.Millisecond)

// Summarize derives the run metrics from a dispatch report. Makespan is the
// realized wall-clock span of the whole run, not a sum of task times.
func Summarize(algorithm string, rep *executor.Report, nodes []*node.Node) Summary {

	s := Summary{
		Algorithm: algorithm,
		Makespan:  rep.Elapsed.Seconds(),
	}

	loads := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		loads[n.Name] = 0.0
	}

	hist := hdrhistogram.New(1, histogramMaxMs, 3)

	totalExec := 0.0
	for _, r := range rep.Results {
		if r.ExecTime <= 0 {
			s.Failed++
			continue
		}

		s.Succeeded++
		s.TotalWaitTime += r.WaitTime
		totalExec += r.ExecTime
		loads[r.Node] += r.ExecTime

		// Clamp to the histogram bound so an absurdly long task still shows
		// up in the percentiles instead of vanishing.
		ms := int64(r.ExecTime * 1000)
		if ms > histogramMaxMs {
			ms = histogramMaxMs
		}
		hist.RecordValue(ms)
	}

	if s.Succeeded > 0 {
		s.AvgExecTime = totalExec / float64(s.Succeeded)
		s.ExecTimeP50 = float64(hist.ValueAtQuantile(50)) / 1000.0
		s.ExecTimeP95 = float64(hist.ValueAtQuantile(95)) / 1000.0
		s.ExecTimeMax = float64(hist.Max()) / 1000.0
	}

	if s.Makespan > 0 {
		s.Throughput = float64(s.Succeeded) / s.Makespan
	}

	s.Imbalance = imbalance(loads)

	totalCores := 0
	for _, n := range nodes {
		totalCores += n.Cores
	}
	if s.Makespan > 0 && totalCores > 0 {
		s.Utilization = totalExec / (s.Makespan * float64(totalCores))
	}

	return s
}

// imbalance is the spread between the most- and least-loaded node,
// normalized by the average load across the whole roster.
func imbalance(loads map[string]float64) float64 {

	if len(loads) == 0 {
		return 0.0
	}

	first := true
	min, max, total := 0.0, 0.0, 0.0
	for _, l := range loads {
		if first {
			min, max = l, l
			first = false
		}
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
		total += l
	}

	avg := total / float64(len(loads))
	if avg == 0 {
		return 0.0
	}

	return (max - min) / avg
}

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dagsched/executor"
	"dagsched/node"
)

func testNodes() []*node.Node {
	return []*node.Node{
		node.New("vm1", "10.0.0.1", 5000, 2, 0),
		node.New("vm2", "10.0.0.2", 5000, 2, 0),
	}
}

func TestSummarizeExcludesFailures(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 10 * time.Second,
		Failed:  1,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 4, WaitTime: 1},
			{TaskID: 1, Node: "vm2", ExecTime: 2, WaitTime: 0},
			{TaskID: 2, Node: "vm2", ExecTime: -1, Err: "timeout"},
		},
	}

	s := Summarize("heft", rep, testNodes())

	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 10.0, s.Makespan)
	assert.InDelta(t, 0.2, s.Throughput, 1e-9, "two successes over ten seconds")
	assert.InDelta(t, 3.0, s.AvgExecTime, 1e-9)
	assert.InDelta(t, 1.0, s.TotalWaitTime, 1e-9)
}

func TestSummarizeImbalance(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 4 * time.Second,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 3},
			{TaskID: 1, Node: "vm2", ExecTime: 1},
		},
	}

	s := Summarize("rr", rep, testNodes())

	// Loads are 3 and 1, average 2: (3-1)/2.
	assert.InDelta(t, 1.0, s.Imbalance, 1e-9)
}

func TestSummarizeBalancedRunHasZeroImbalance(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 2 * time.Second,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 2},
			{TaskID: 1, Node: "vm2", ExecTime: 2},
		},
	}

	s := Summarize("fcfs", rep, testNodes())
	assert.Equal(t, 0.0, s.Imbalance)
}

func TestSummarizeUtilization(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 5 * time.Second,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 5},
			{TaskID: 1, Node: "vm2", ExecTime: 5},
		},
	}

	// 10s of cpu time over 5s of wall clock across 4 cores.
	s := Summarize("heft", rep, testNodes())
	assert.InDelta(t, 0.5, s.Utilization, 1e-9)
}

func TestSummarizeEmptyReport(t *testing.T) {

	s := Summarize("shc", &executor.Report{}, testNodes())

	assert.Equal(t, 0.0, s.Makespan)
	assert.Equal(t, 0.0, s.Throughput)
	assert.Equal(t, 0.0, s.AvgExecTime)
	assert.Equal(t, 0.0, s.Imbalance)
	assert.Equal(t, 0.0, s.Utilization)
	assert.Equal(t, 0, s.Succeeded)
}

func TestSummarizeAllFailed(t *testing.T) {

	rep := &executor.Report{
		Elapsed: time.Second,
		Failed:  2,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: -1, Err: "connection refused"},
			{TaskID: 1, Node: "vm2", ExecTime: -1, Err: "connection refused"},
		},
	}

	s := Summarize("rr", rep, testNodes())

	assert.Equal(t, 0, s.Succeeded)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 0.0, s.Throughput)
	assert.Equal(t, 0.0, s.Imbalance, "no successful tasks means every load is zero")
}

func TestSummarizeClampsOversizedExecTimes(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 10 * time.Second,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 2},
			{TaskID: 1, Node: "vm2", ExecTime: 7 * 60 * 60}, // beyond the histogram bound
		},
	}

	s := Summarize("fcfs", rep, testNodes())

	// The oversized sample is clamped, not dropped: both results count and
	// the max saturates at the histogram's upper bound.
	assert.Equal(t, 2, s.Succeeded)
	assert.InDelta(t, 6*60*60, s.ExecTimeMax, 30)
	assert.Greater(t, s.ExecTimeP95, s.ExecTimeP50)
}

func TestSummarizePercentiles(t *testing.T) {

	rep := &executor.Report{
		Elapsed: 10 * time.Second,
		Results: []executor.Result{
			{TaskID: 0, Node: "vm1", ExecTime: 1},
			{TaskID: 1, Node: "vm1", ExecTime: 2},
			{TaskID: 2, Node: "vm2", ExecTime: 4},
		},
	}

	s := Summarize("heft", rep, testNodes())

	assert.Greater(t, s.ExecTimeP50, 0.0)
	assert.GreaterOrEqual(t, s.ExecTimeP95, s.ExecTimeP50)
	assert.InDelta(t, 4.0, s.ExecTimeMax, 0.01)
}

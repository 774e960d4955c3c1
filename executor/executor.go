package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"dagsched/node"
	"dagsched/scheduler"
	"dagsched/task"
)

// Result is the audited outcome of one dispatched task. ExecTime is -1 when
// the remote call failed or timed out; such results are kept for auditing
// but excluded from performance metrics.
type Result struct {
	TaskID          int        `json:"task_id"`
	Value           int        `json:"value"`
	Node            string     `json:"node"`
	ScheduledStart  float64    `json:"scheduled_start"`
	ScheduledFinish float64    `json:"scheduled_finish"`
	ActualStart     time.Time  `json:"actual_start"`
	ActualFinish    time.Time  `json:"actual_finish"`
	ExecTime        float64    `json:"exec_time"`
	WaitTime        float64    `json:"wait_time"`
	State           task.State `json:"state"`
	Err             string     `json:"error,omitempty"`
}

// Report is everything the dispatch produced: one result per task in id
// order and the wall-clock span of the whole run, which is the realized
// makespan.
type Report struct {
	Results []Result
	Started time.Time
	Elapsed time.Duration
	Failed  int
}

// Executor turns a finalized schedule into bounded-parallel remote calls.
// Each node gets a permit pool sized to its core count; tasks on the same
// node queue for a permit while tasks on different nodes run fully in
// parallel. A failed call never cancels its siblings.
type Executor struct {
	Client  *http.Client
	Timeout time.Duration
	// Post switches to the POST /execute endpoint for single-machine mode.
	Post bool

	nodes   map[string]*node.Node
	permits map[string]*semaphore.Weighted
	logger  *zap.SugaredLogger
}

func New(nodes []*node.Node, timeout time.Duration, logger *zap.SugaredLogger) *Executor {

	e := &Executor{
		Client:  &http.Client{},
		Timeout: timeout,
		nodes:   make(map[string]*node.Node, len(nodes)),
		permits: make(map[string]*semaphore.Weighted, len(nodes)),
		logger:  logger,
	}

	for _, n := range nodes {
		e.nodes[n.Name] = n
		e.permits[n.Name] = semaphore.NewWeighted(int64(n.Cores))
	}

	return e
}

// Run dispatches every scheduled task and joins on all of them. The
// returned error covers setup problems only; per-task failures land in the
// report.
func (e *Executor) Run(ctx context.Context, sched *scheduler.Schedule, g *task.Graph) (*Report, error) {

	for _, ev := range sched.Events {
		if _, ok := e.permits[ev.Node]; !ok {
			return nil, fmt.Errorf("schedule assigns task %d to unknown node %q", ev.TaskID, ev.Node)
		}
		if g.Get(ev.TaskID) == nil {
			return nil, fmt.Errorf("schedule references unknown task %d", ev.TaskID)
		}
	}

	results := haxmap.New[int, *Result]()
	started := time.Now()

	var wg sync.WaitGroup
	for _, ev := range sched.Events {
		wg.Add(1)
		go func(ev scheduler.Event) {
			defer wg.Done()
			results.Set(ev.TaskID, e.dispatch(ctx, ev, g.Get(ev.TaskID)))
		}(ev)
	}
	wg.Wait()

	elapsed := time.Since(started)

	report := &Report{Started: started, Elapsed: elapsed}
	results.ForEach(func(_ int, r *Result) bool {
		report.Results = append(report.Results, *r)
		if r.ExecTime < 0 {
			report.Failed++
		}
		return true
	})
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].TaskID < report.Results[j].TaskID
	})

	e.logger.Infow("dispatch complete",
		"algorithm", sched.Algorithm,
		"tasks", len(report.Results),
		"failed", report.Failed,
		"elapsed", elapsed,
	)

	return report, nil
}

// dispatch runs a single task: wait for a permit on the assigned node, make
// the remote call, record timings. The permit is released on every exit
// path; a failure is recorded in the result and isolated there.
func (e *Executor) dispatch(ctx context.Context, ev scheduler.Event, t *task.Task) *Result {

	res := &Result{
		TaskID:          ev.TaskID,
		Value:           t.Value,
		Node:            ev.Node,
		ScheduledStart:  ev.Start,
		ScheduledFinish: ev.Finish,
		State:           task.Scheduled,
	}

	sem := e.permits[ev.Node]

	waitStart := time.Now()
	if err := sem.Acquire(ctx, 1); err != nil {
		res.fail(fmt.Sprintf("acquiring permit on %s: %v", ev.Node, err))
		return res
	}
	defer sem.Release(1)
	res.WaitTime = time.Since(waitStart).Seconds()

	res.transition(task.Running)
	res.ActualStart = time.Now()

	err := e.call(ctx, e.nodes[ev.Node], t.Value)

	res.ActualFinish = time.Now()

	if err != nil {
		e.logger.Warnw("task failed", "task", ev.TaskID, "node", ev.Node, "err", err)
		res.fail(err.Error())
		return res
	}

	res.ExecTime = res.ActualFinish.Sub(res.ActualStart).Seconds()
	res.transition(task.Completed)

	return res
}

func (e *Executor) call(ctx context.Context, n *node.Node, value int) error {

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	var req *http.Request
	var err error
	if e.Post {
		body, _ := json.Marshal(map[string]int{"value": value})
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, n.ExecuteURL(), bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, n.TaskURL(value), nil)
	}
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", n.Name, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("node %s returned status %d", n.Name, resp.StatusCode)
	}

	return nil
}

func (r *Result) fail(msg string) {
	r.ExecTime = -1
	r.Err = msg
	r.transition(task.Failed)
}

func (r *Result) transition(to task.State) {
	if task.ValidStateTransition(r.State, to) {
		r.State = to
	}
}

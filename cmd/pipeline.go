package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dagsched/config"
	"dagsched/executor"
	"dagsched/metrics"
	"dagsched/node"
	"dagsched/report"
	"dagsched/scheduler"
	"dagsched/store"
	"dagsched/task"
)

// pipelineOpts collects everything the run and compare commands share.
type pipelineOpts struct {
	datasetFile string
	rosterFile  string
	shape       string
	width       int
	seed        int64
	iterations  int
	timeout     time.Duration
	post        bool
	dryRun      bool
	dbType      string
	dbFile      string
}

// loadRoster prefers an explicit roster file over the environment.
func loadRoster(o pipelineOpts, logger *zap.SugaredLogger) ([]*node.Node, error) {

	if o.rosterFile != "" {
		return config.LoadNodesFile(o.rosterFile)
	}

	return config.NodesFromEnv(logger)
}

// buildGraph loads the dataset and constructs the task DAG.
func buildGraph(o pipelineOpts, nodes []*node.Node, logger *zap.SugaredLogger) (*task.Graph, error) {

	values, err := config.LoadDataset(o.datasetFile, logger)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("dataset %s contains no usable tasks", o.datasetFile)
	}

	shape, err := task.ParseShape(o.shape)
	if err != nil {
		return nil, err
	}

	cores := make(map[string]int, len(nodes))
	for _, n := range nodes {
		cores[n.Name] = n.Cores
	}

	g := task.NewGraph(values, cores, task.GraphConfig{Shape: shape, Width: o.width})
	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// probeNodes asks every agent for a stats snapshot before dispatch. An
// unreachable agent is logged, not fatal; its tasks will surface as failed
// results instead.
func probeNodes(nodes []*node.Node, logger *zap.SugaredLogger) {

	for _, n := range nodes {
		stats := node.GetStats(n, logger)
		if stats == nil {
			continue
		}
		logger.Infow("node stats",
			"node", n.Name,
			"mem_used_kb", stats.MemUsedKb(),
			"cpu_usage", stats.CpuUsage(),
			"running", stats.Running,
			"completed", stats.Completed,
		)
	}
}

// newRand builds the explicit random source the stochastic mapper requires.
// Seed 0 means "seed from the clock".
func newRand(seed int64) *rand.Rand {

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// runAlgorithm computes a schedule and, unless dry-run, dispatches it and
// aggregates the realized metrics.
func runAlgorithm(ctx context.Context, algo string, g *task.Graph, nodes []*node.Node, o pipelineOpts, logger *zap.SugaredLogger) (*scheduler.Schedule, *executor.Report, error) {

	s, err := scheduler.New(algo, scheduler.Options{
		Comm:          scheduler.UniformComm(nodes, 1.0),
		MaxIterations: o.iterations,
		Rand:          newRand(o.seed),
	})
	if err != nil {
		return nil, nil, err
	}

	sched, err := s.Schedule(g, nodes)
	if err != nil {
		return nil, nil, err
	}

	logger.Infow("schedule computed",
		"algorithm", algo,
		"tasks", g.Len(),
		"planned_makespan", sched.Makespan(),
	)

	if o.dryRun {
		return sched, nil, nil
	}

	ex := executor.New(nodes, o.timeout, logger)
	ex.Post = o.post

	rep, err := ex.Run(ctx, sched, g)
	if err != nil {
		return sched, nil, err
	}

	return sched, rep, nil
}

// recordRun persists the run for the history command.
func recordRun(algo string, g *task.Graph, rep *executor.Report, sum metrics.Summary, o pipelineOpts, logger *zap.SugaredLogger) {

	runs, err := store.NewRunStore(o.dbType, o.dbFile)
	if err != nil {
		logger.Warnw("not recording run", "err", err)
		return
	}
	if c, ok := runs.(interface{ Close() error }); ok {
		defer c.Close()
	}

	rec := &store.RunRecord{
		ID:          uuid.NewString(),
		Algorithm:   algo,
		StartedAt:   rep.Started,
		DatasetSize: g.Len(),
		Summary:     sum,
		Results:     rep.Results,
	}

	if err := runs.Put(rec.ID, rec); err != nil {
		logger.Warnw("error recording run", "err", err)
		return
	}

	logger.Infow("run recorded", "id", rec.ID, "store", o.dbType)
}

func printSummary(sum metrics.Summary) {
	fmt.Printf("\n=== %s ===\n", sum.Algorithm)
	fmt.Printf("makespan:             %.2fs\n", sum.Makespan)
	fmt.Printf("throughput:           %.2f tasks/s\n", sum.Throughput)
	fmt.Printf("total wait time:      %.2fs\n", sum.TotalWaitTime)
	fmt.Printf("avg exec time:        %.2fs (p50 %.2fs, p95 %.2fs, max %.2fs)\n", sum.AvgExecTime, sum.ExecTimeP50, sum.ExecTimeP95, sum.ExecTimeMax)
	fmt.Printf("imbalance degree:     %.2f\n", sum.Imbalance)
	fmt.Printf("resource utilization: %.2f\n", sum.Utilization)
	fmt.Printf("tasks:                %d ok, %d failed (failures excluded from metrics)\n", sum.Succeeded, sum.Failed)
}

// saveRun writes the per-task CSV rows for one algorithm run.
func saveRun(algo, output string, rep *executor.Report, logger *zap.SugaredLogger) {

	if output == "" {
		output = fmt.Sprintf("results_%s.csv", algo)
	}

	if err := report.SaveResults(output, rep); err != nil {
		logger.Warnw("error writing results", "file", output, "err", err)
		return
	}

	logger.Infow("results written", "file", output)
}

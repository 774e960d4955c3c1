/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dagsched/metrics"
)

var runOpts = pipelineOpts{}
var runAlgo string
var runOutput string
var runDot string
var runProbe bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule a dataset and dispatch it to the worker roster",
	Long: `dagsched run command.

The run command loads the dataset, builds the task DAG, computes an
assignment with the selected algorithm and dispatches it to the
configured worker nodes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		nodes, err := loadRoster(runOpts, logger)
		if err != nil {
			return err
		}

		g, err := buildGraph(runOpts, nodes, logger)
		if err != nil {
			return err
		}

		if runDot != "" {
			if err := os.WriteFile(runDot, []byte(g.Dot()), 0644); err != nil {
				return fmt.Errorf("writing dot file: %w", err)
			}
			logger.Infow("task graph exported", "file", runDot)
		}

		if runProbe && !runOpts.dryRun {
			probeNodes(nodes, logger)
		}

		sched, rep, err := runAlgorithm(cmd.Context(), runAlgo, g, nodes, runOpts, logger)
		if err != nil {
			return err
		}

		if runOpts.dryRun {
			fmt.Printf("planned schedule (%s), makespan %.2f:\n", runAlgo, sched.Makespan())
			for _, ev := range sched.EventsByStart() {
				fmt.Printf("  task %3d -> %-6s start=%.2f finish=%.2f\n", ev.TaskID, ev.Node, ev.Start, ev.Finish)
			}
			return nil
		}

		sum := metrics.Summarize(runAlgo, rep, nodes)
		printSummary(sum)

		saveRun(runAlgo, runOutput, rep, logger)
		recordRun(runAlgo, g, rep, sum, runOpts, logger)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runAlgo, "algo", "a", "heft", "scheduling algorithm (heft, shc, rr, fcfs)")
	runCmd.Flags().StringVarP(&runOpts.datasetFile, "dataset", "d", "dataset.txt", "dataset file, one workload value per line")
	runCmd.Flags().StringVarP(&runOpts.rosterFile, "nodes", "n", "", "YAML roster file (defaults to VM*_IP environment variables)")
	runCmd.Flags().StringVar(&runOpts.shape, "shape", "chain", "dependency shape (chain, parallel)")
	runCmd.Flags().IntVar(&runOpts.width, "width", 3, "chain width for the parallel shape")
	runCmd.Flags().Int64Var(&runOpts.seed, "seed", 0, "random seed for shc (0 seeds from the clock)")
	runCmd.Flags().IntVar(&runOpts.iterations, "iterations", 1000, "iteration budget for shc")
	runCmd.Flags().DurationVar(&runOpts.timeout, "timeout", defaultTaskTimeout, "per-task remote call timeout")
	runCmd.Flags().BoolVar(&runOpts.post, "single-machine", false, "use POST /execute instead of GET /task/{value}")
	runCmd.Flags().BoolVar(&runOpts.dryRun, "dry-run", false, "compute the schedule without dispatching")
	runCmd.Flags().StringVar(&runOpts.dbType, "db", "memory", "run history store (memory, persistent)")
	runCmd.Flags().StringVar(&runOpts.dbFile, "db-file", "runs.db", "bbolt file for the persistent store")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "results CSV file (default results_<algo>.csv)")
	runCmd.Flags().StringVar(&runDot, "dot", "", "export the task graph in Graphviz format")
	runCmd.Flags().BoolVar(&runProbe, "probe", false, "fetch a stats snapshot from every node before dispatch")
}
